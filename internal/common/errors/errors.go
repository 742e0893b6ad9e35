// internal/common/errors/errors.go

// Package errors provides standardized error handling for the bid pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Pipeline data errors. All of these degrade to zero-cost lines or
	// empty outputs rather than aborting the workflow.
	ErrCodeRequirementParseFailed ErrorCode = "REQUIREMENT_PARSE_FAILED"
	ErrCodeNoMatchFound           ErrorCode = "NO_MATCH_FOUND"
	ErrCodePriceLookupMiss        ErrorCode = "PRICE_LOOKUP_MISS"

	// Catalog errors.
	ErrCodeCatalogLoadFailed   ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogDuplicateSKU ErrorCode = "CATALOG_DUPLICATE_SKU"

	// Inference collaborator errors. The current step stays retryable.
	ErrCodeInferenceFailed  ErrorCode = "INFERENCE_FAILED"
	ErrCodeInferenceTimeout ErrorCode = "INFERENCE_TIMEOUT"

	// Orchestrator usage errors. Surfaced to the caller, never retried
	// internally.
	ErrCodeWorkflowNotFound  ErrorCode = "WORKFLOW_NOT_FOUND"
	ErrCodeWorkflowCompleted ErrorCode = "WORKFLOW_ALREADY_COMPLETED"
	ErrCodeWorkflowBusy      ErrorCode = "WORKFLOW_STEP_IN_FLIGHT"

	// Storage errors.
	ErrCodeStoreFailed ErrorCode = "WORKFLOW_STORE_FAILED"

	// Listing errors.
	ErrCodeNoListingAvailable ErrorCode = "NO_LISTING_AVAILABLE"
)

// Sentinel errors for orchestrator misuse, matchable with errors.Is.
var (
	ErrWorkflowNotFound  = errors.New("workflow not found")
	ErrWorkflowCompleted = errors.New("workflow already completed")
	ErrWorkflowBusy      = errors.New("workflow step already in flight")
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	wrapped   error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.wrapped
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRequirementParseFailedError creates a non-retryable parse error.
func NewRequirementParseFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequirementParseFailed,
		Message:   "Requirement text could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a retryable catalog load error.
func NewCatalogLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Catalog tables could not be loaded",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		wrapped:   err,
	}
}

// NewInferenceFailedError creates a retryable inference service error.
func NewInferenceFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceFailed,
		Message:   "Inference service call failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		wrapped:   err,
	}
}

// NewInferenceTimeoutError creates a retryable inference timeout error.
func NewInferenceTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceTimeout,
		Message:   "Inference service call timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowNotFoundError creates a non-retryable caller error.
func NewWorkflowNotFoundError(workflowID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowNotFound,
		Message:   "Workflow not found",
		Details:   fmt.Sprintf("workflowId: %s", workflowID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		wrapped:   ErrWorkflowNotFound,
	}
}

// NewWorkflowCompletedError creates a non-retryable caller error.
func NewWorkflowCompletedError(workflowID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowCompleted,
		Message:   "Workflow already produced its final bid",
		Details:   fmt.Sprintf("workflowId: %s", workflowID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		wrapped:   ErrWorkflowCompleted,
	}
}

// NewWorkflowBusyError creates a non-retryable concurrent-execution error.
func NewWorkflowBusyError(workflowID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowBusy,
		Message:   "A step is already executing for this workflow",
		Details:   fmt.Sprintf("workflowId: %s", workflowID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		wrapped:   ErrWorkflowBusy,
	}
}

// NewStoreFailedError creates a retryable workflow store error.
func NewStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreFailed,
		Message:   "Workflow store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		wrapped:   err,
	}
}

// NewNoListingAvailableError creates a non-retryable listing error.
func NewNoListingAvailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoListingAvailable,
		Message:   "No RFP listing available to process",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}
