// internal/stages/stagecall/stagecall.go
package stagecall

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"loan-evaluation/internal/common/config"
)

// ErrTimeout distinguishes a deadline from other transport failures.
var ErrTimeout = errors.New("stage call timed out")

// Post issues a POST with bounded retries and exponential backoff. Non-2xx
// responses count as failures and are retried. The caller's context deadline
// is the only timeout; there is no retry once it expires.
func Post(ctx context.Context, client *http.Client, cfg config.StageConfig, stage, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build %s request: %w", stage, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil ||
				errors.Is(err, context.DeadlineExceeded) ||
				errors.Is(err, context.Canceled) {
				return nil, ErrTimeout
			}
			lastErr = err
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return data, nil
	}

	return nil, fmt.Errorf("%s call failed after %d attempts: %w", stage, cfg.MaxRetries+1, lastErr)
}
