// internal/audit/indexer.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"loan-evaluation/internal/common/database"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/models"
)

// Disabled is the sink used when audit indexing is turned off.
type Disabled struct{}

func (Disabled) Index(context.Context, *models.EvaluationRecord) {}

// Indexer ships completed evaluations to Elasticsearch for offline review.
// Indexing is strictly best-effort; a failed index never fails a submission.
type Indexer struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *Indexer {
	return &Indexer{es: es, index: index, logger: log}
}

// Index writes one evaluation record, keyed by its request id.
func (i *Indexer) Index(ctx context.Context, record *models.EvaluationRecord) {
	if i == nil || i.es == nil {
		return
	}

	body, err := json.Marshal(record)
	if err != nil {
		i.logger.WithError(err).Warn("audit record not serializable")
		return
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: record.RequestID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.es.Client)
	if err != nil {
		i.logger.WithError(err).WithFields(map[string]interface{}{
			"request_id": record.RequestID,
		}).Warn("audit index failed")
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.WithError(fmt.Errorf("status %s", res.Status())).WithFields(map[string]interface{}{
			"request_id": record.RequestID,
		}).Warn("audit index rejected")
	}
}
