// Package errors provides standardized error handling for the evaluation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeExtractionUnavailable ErrorCode = "EXTRACTION_UNAVAILABLE"
	ErrCodeExtractionMalformed   ErrorCode = "EXTRACTION_MALFORMED"

	ErrCodeCreditUnavailable    ErrorCode = "CREDIT_UNAVAILABLE"
	ErrCodeValuationUnavailable ErrorCode = "VALUATION_UNAVAILABLE"
	ErrCodeStageTimeout         ErrorCode = "STAGE_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeStoreCorrupted   ErrorCode = "STORE_CORRUPTED"
	ErrCodeRequestNotFound  ErrorCode = "REQUEST_NOT_FOUND"

	ErrCodePipelineFailed ErrorCode = "PIPELINE_FAILED"
)

// PipelineError represents a structured application error.
type PipelineError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStageUnavailableError creates a retryable error for an unreachable stage.
func NewStageUnavailableError(stage string, err error) *PipelineError {
	code := ErrCodePipelineFailed
	switch stage {
	case "extraction":
		code = ErrCodeExtractionUnavailable
	case "credit":
		code = ErrCodeCreditUnavailable
	case "valuation":
		code = ErrCodeValuationUnavailable
	}
	return &PipelineError{
		Code:      code,
		Message:   fmt.Sprintf("Stage '%s' is unavailable", stage),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStageTimeoutError creates a retryable timeout error for a stage call.
func NewStageTimeoutError(stage string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeStageTimeout,
		Message:   fmt.Sprintf("Stage '%s' call timed out", stage),
		Details:   "call exceeded the configured timeout",
		Retryable: true,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionMalformedError records a non-parseable extraction payload.
// Recovered locally by defaulting, never surfaced to the caller.
func NewExtractionMalformedError(details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeExtractionMalformed,
		Message:   "Extraction payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a notification delivery error.
// Swallowed by the orchestrator, never fatal to a submission.
func NewNotificationSendFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError creates a retryable persistence error.
func NewStoreWriteFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Request store write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestNotFoundError marks a lookup miss. This is an expected outcome,
// not an exceptional one.
func NewRequestNotFoundError(requestID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeRequestNotFound,
		Message:   "no such request",
		Details:   fmt.Sprintf("requestId: %s", requestID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPipelineFailedError wraps an unrecoverable submission failure.
func NewPipelineFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodePipelineFailed,
		Message:   "Loan evaluation pipeline failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
