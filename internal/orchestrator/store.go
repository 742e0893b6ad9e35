// internal/orchestrator/store.go

// Package orchestrator drives one workflow through the five pipeline steps,
// persisting state after every transition so a run can be resumed or retried
// from any process that shares the store.
package orchestrator

import (
	"context"

	"rfp-bid-engine/internal/models"
)

// PipelineState carries the intermediate outputs between steps. It is
// persisted alongside the workflow instance so a retried step re-reads the
// exact inputs of the failed attempt.
type PipelineState struct {
	RFPID    string                   `json:"rfp_id,omitempty"`
	Title    string                   `json:"title,omitempty"`
	DueDate  string                   `json:"due_date,omitempty"`
	Sections models.ExtractedSections `json:"sections"`

	Items   []models.RequirementItem `json:"items,omitempty"`
	Matches []models.MatchResult     `json:"matches,omitempty"`
	Pricing []models.PricedItem      `json:"pricing,omitempty"`
	Total   models.Money             `json:"total_bid_value"`

	// InlineDocument is set when the caller supplied the proposal text at
	// start instead of relying on listing selection.
	InlineDocument string `json:"inline_document,omitempty"`
}

// State is the unit of persistence: one workflow instance plus the pipeline
// data flowing between its steps.
type State struct {
	Workflow models.WorkflowInstance `json:"workflow"`
	Pipeline PipelineState           `json:"pipeline"`
}

// Store persists workflow state between execution calls. Implementations must
// return errors.ErrWorkflowNotFound (wrapped) for unknown ids.
type Store interface {
	Get(ctx context.Context, workflowID string) (*State, error)
	Put(ctx context.Context, state *State) error
}
