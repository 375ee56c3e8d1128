// internal/stages/notification/notifier.go
package notification

import (
	"context"
	"fmt"

	"loan-evaluation/internal/models"
)

// DecisionNotifier adapts a completed evaluation into a notification call.
type DecisionNotifier struct {
	client *Client
}

func NewDecisionNotifier(client *Client) *DecisionNotifier {
	return &DecisionNotifier{client: client}
}

// Send delivers the decision summary to the applicant's recorded contacts.
func (n *DecisionNotifier) Send(ctx context.Context, record *models.EvaluationRecord) error {
	outcome := "REJECTED"
	if record.Decision.Approved {
		outcome = "APPROVED"
	}

	return n.client.Notify(ctx, Request{
		RequestID: record.RequestID,
		Email:     record.Applicant.Email,
		Phone:     record.Applicant.Phone,
		Message:   fmt.Sprintf("Decision=%s; details=%s", outcome, record.Decision.Message),
		Approved:  record.Decision.Approved,
	})
}
