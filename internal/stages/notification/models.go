// internal/stages/notification/models.go
package notification

// Request is the wire input of the notification collaborator.
type Request struct {
	RequestID string `json:"request_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
	Approved  bool   `json:"approved"`
}

// Response is the collaborator's wire output.
type Response struct {
	Delivered bool     `json:"delivered"`
	Channels  []string `json:"channels"`
}
