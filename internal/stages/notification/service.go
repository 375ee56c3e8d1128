// internal/stages/notification/service.go
package notification

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
)

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SMSSender is satisfied by the SNS client wrapper.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Service implements the notification collaborator. Every notification is
// appended to the audit log file; email and SMS delivery are optional
// channels on top. Channel failures are logged but never fail the request,
// only a log write failure does.
type Service struct {
	config config.NotificationConfig
	email  EmailSender
	sms    SMSSender
	logger logger.Logger

	mu sync.Mutex
}

func NewService(cfg config.NotificationConfig, email EmailSender, sms SMSSender, log logger.Logger) *Service {
	return &Service{
		config: cfg,
		email:  email,
		sms:    sms,
		logger: log,
	}
}

// Notify records and delivers one decision message.
func (s *Service) Notify(ctx context.Context, req Request) (Response, error) {
	if err := s.appendLog(req); err != nil {
		return Response{}, err
	}
	channels := []string{"log"}

	if s.config.Email.Enabled && s.email != nil {
		if err := s.sendEmail(ctx, req); err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"request_id": req.RequestID,
			}).Warn("email delivery failed")
		} else {
			channels = append(channels, "email")
		}
	}

	// SMS is sent for rejections only.
	if s.config.SMS.Enabled && s.sms != nil && !req.Approved && req.Phone != "" {
		if err := s.sendSMS(ctx, req); err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"request_id": req.RequestID,
			}).Warn("sms delivery failed")
		} else {
			channels = append(channels, "sms")
		}
	}

	return Response{Delivered: true, Channels: channels}, nil
}

// appendLog writes one line per notification, serialized so concurrent
// requests never interleave partial lines.
func (s *Service) appendLog(req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.config.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open notification log: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("%s | %s | to=%s | %s\n",
		time.Now().UTC().Format(time.RFC3339), req.RequestID, req.Email, req.Message)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("write notification log: %w", err)
	}
	return nil
}

func (s *Service) sendEmail(ctx context.Context, req Request) error {
	subject := "Your loan request " + req.RequestID
	_, err := s.email.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.config.Email.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{req.Email}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(req.Message)},
			},
		},
	})
	return err
}

func (s *Service) sendSMS(ctx context.Context, req Request) error {
	_, err := s.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(req.Phone),
		Message:     aws.String(req.Message),
	})
	return err
}

// RegisterRoutes mounts the collaborator endpoint on the given router.
func (s *Service) RegisterRoutes(router gin.IRouter) {
	router.POST("/notify", s.handleNotify)
}

func (s *Service) handleNotify(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.WithError(err).Warn("notify request body unreadable")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := s.Notify(c.Request.Context(), req)
	if err != nil {
		s.logger.WithError(err).Error("notification not recorded")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification not recorded"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
