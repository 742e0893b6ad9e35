// internal/models/workflow.go
package models

// StepStatus is the lifecycle state of a single pipeline step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepError     StepStatus = "error"
)

// StepRecord tracks one unit of orchestrated work.
type StepRecord struct {
	StepName  string                 `json:"step_name"`
	AgentName string                 `json:"agent_name"`
	Status    StepStatus             `json:"status"`
	Output    map[string]interface{} `json:"output,omitempty"`
	Summary   string                 `json:"summary,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// WorkflowInstance is one run of the pipeline from start to final bid.
// CurrentStep advances by exactly one per successful execution call and never
// passes TotalSteps; FinalResponse is set exactly once, on the final step.
type WorkflowInstance struct {
	WorkflowID    string       `json:"workflow_id"`
	CurrentStep   int          `json:"current_step"`
	TotalSteps    int          `json:"total_steps"`
	Steps         []StepRecord `json:"steps"`
	FinalResponse *FinalBid    `json:"final_response,omitempty"`
}

// Completed reports whether the workflow has produced its final bid.
func (w *WorkflowInstance) Completed() bool {
	return w.FinalResponse != nil
}
