// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/common/metrics"
	"rfp-bid-engine/internal/common/observability"
	"rfp-bid-engine/internal/models"
	consolidatebid "rfp-bid-engine/internal/workers/bid/consolidate-bid"
	extractdocument "rfp-bid-engine/internal/workers/bid/extract-document"
	matchproducts "rfp-bid-engine/internal/workers/bid/match-products"
	parserequirements "rfp-bid-engine/internal/workers/bid/parse-requirements"
	priceitems "rfp-bid-engine/internal/workers/bid/price-items"
)

// stepDef pins the fixed pipeline order. Step names double as task types.
type stepDef struct {
	name  string
	agent string
}

var pipelineSteps = []stepDef{
	{name: extractdocument.TaskType, agent: "document-extraction-agent"},
	{name: parserequirements.TaskType, agent: "requirement-parsing-agent"},
	{name: matchproducts.TaskType, agent: "product-matching-agent"},
	{name: priceitems.TaskType, agent: "pricing-agent"},
	{name: consolidatebid.TaskType, agent: "consolidation-agent"},
}

// Notifier is told when a workflow produces its final bid. Delivery is best
// effort; a notifier error never fails the step.
type Notifier interface {
	BidCompleted(ctx context.Context, workflow *models.WorkflowInstance) error
}

// Handlers bundles the five step handlers the orchestrator dispatches to.
type Handlers struct {
	ExtractDocument   *extractdocument.Handler
	ParseRequirements *parserequirements.Handler
	MatchProducts     *matchproducts.Handler
	PriceItems        *priceitems.Handler
	ConsolidateBid    *consolidatebid.Handler
}

// Orchestrator advances workflows one step per execution call. Failed steps
// leave the cursor unchanged so the same step is retried verbatim.
type Orchestrator struct {
	store    Store
	handlers Handlers
	obs      *observability.Observability
	notifier Notifier
	logger   logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New(store Store, handlers Handlers, obs *observability.Observability, notifier Notifier, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		handlers: handlers,
		obs:      obs,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "orchestrator"}),
		inFlight: map[string]struct{}{},
	}
}

// Start creates a new workflow with all steps pending. When inlineDocument is
// non-empty the first step uses it instead of selecting a listing.
func (o *Orchestrator) Start(ctx context.Context, inlineDocument string) (*models.WorkflowInstance, error) {
	steps := make([]models.StepRecord, 0, len(pipelineSteps))
	for _, def := range pipelineSteps {
		steps = append(steps, models.StepRecord{
			StepName:  def.name,
			AgentName: def.agent,
			Status:    models.StepPending,
		})
	}

	state := &State{
		Workflow: models.WorkflowInstance{
			WorkflowID:  uuid.NewString(),
			CurrentStep: 0,
			TotalSteps:  len(pipelineSteps),
			Steps:       steps,
		},
		Pipeline: PipelineState{InlineDocument: inlineDocument},
	}

	if err := o.store.Put(ctx, state); err != nil {
		return nil, err
	}

	metrics.WorkflowsStarted.Inc()
	o.logger.Info("workflow started", map[string]interface{}{
		"workflowId": state.Workflow.WorkflowID,
		"totalSteps": state.Workflow.TotalSteps,
	})
	return &state.Workflow, nil
}

// Get returns the current workflow state.
func (o *Orchestrator) Get(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	state, err := o.store.Get(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	return &state.Workflow, nil
}

// ExecuteNext runs exactly one step: the one the cursor points at. On success
// the cursor advances by one; on failure the step is marked errored and the
// cursor stays, so the next call retries it. A second concurrent call for the
// same workflow is rejected.
func (o *Orchestrator) ExecuteNext(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	if err := o.acquire(workflowID); err != nil {
		return nil, err
	}
	defer o.release(workflowID)

	state, err := o.store.Get(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if state.Workflow.Completed() {
		return nil, errors.NewWorkflowCompletedError(workflowID)
	}

	idx := state.Workflow.CurrentStep
	if idx >= len(state.Workflow.Steps) {
		return nil, errors.NewWorkflowCompletedError(workflowID)
	}
	step := &state.Workflow.Steps[idx]
	step.Status = models.StepRunning
	step.Error = ""

	start := time.Now()
	summary, output, execErr := o.executeStep(ctx, idx, &state.Pipeline, &state.Workflow)
	elapsed := time.Since(start)

	metrics.StepDuration.WithLabelValues(step.StepName).Observe(elapsed.Seconds())

	if execErr != nil {
		step.Status = models.StepError
		step.Error = execErr.Error()

		metrics.StepsFailed.WithLabelValues(step.StepName, string(errors.CodeOf(execErr))).Inc()
		if o.obs != nil {
			o.obs.RecordStepExecuted(ctx, step.StepName, "error")
			o.obs.RecordStepDuration(ctx, step.StepName, elapsed, "error")
		}
		o.logger.WithError(execErr).Error("step failed", map[string]interface{}{
			"workflowId": workflowID,
			"step":       step.StepName,
			"retryable":  errors.IsRetryable(execErr),
		})

		if putErr := o.store.Put(ctx, state); putErr != nil {
			return nil, putErr
		}
		return &state.Workflow, execErr
	}

	step.Status = models.StepCompleted
	step.Summary = summary
	step.Output = output
	state.Workflow.CurrentStep++

	metrics.StepsCompleted.WithLabelValues(step.StepName).Inc()
	if o.obs != nil {
		o.obs.RecordStepExecuted(ctx, step.StepName, "completed")
		o.obs.RecordStepDuration(ctx, step.StepName, elapsed, "completed")
	}
	o.logger.Info("step completed", map[string]interface{}{
		"workflowId": workflowID,
		"step":       step.StepName,
		"duration":   elapsed.String(),
	})

	if err := o.store.Put(ctx, state); err != nil {
		return nil, err
	}

	if state.Workflow.Completed() {
		metrics.WorkflowsCompleted.Inc()
		o.logger.Info("workflow completed", map[string]interface{}{
			"workflowId": workflowID,
			"totalValue": state.Workflow.FinalResponse.TotalBidValue.String(),
		})
		if o.notifier != nil {
			if err := o.notifier.BidCompleted(ctx, &state.Workflow); err != nil {
				o.logger.WithError(err).Warn("completion notification failed", map[string]interface{}{
					"workflowId": workflowID,
				})
			}
		}
	}

	return &state.Workflow, nil
}

// RunToCompletion executes steps until the workflow finishes or a step fails.
func (o *Orchestrator) RunToCompletion(ctx context.Context, workflowID string) (*models.WorkflowInstance, error) {
	for {
		workflow, err := o.ExecuteNext(ctx, workflowID)
		if err != nil {
			return workflow, err
		}
		if workflow.Completed() {
			return workflow, nil
		}
	}
}

func (o *Orchestrator) executeStep(ctx context.Context, idx int, p *PipelineState, w *models.WorkflowInstance) (string, map[string]interface{}, error) {
	switch idx {
	case 0:
		out, err := o.handlers.ExtractDocument.Execute(ctx, &extractdocument.Input{
			DocumentText: p.InlineDocument,
		})
		if err != nil {
			return "", nil, err
		}
		p.RFPID = out.RFPID
		p.Title = out.Title
		p.DueDate = out.DueDate
		p.Sections = out.Sections
		return fmt.Sprintf("extracted sections for rfp %s", out.RFPID), toOutputMap(out), nil

	case 1:
		out, err := o.handlers.ParseRequirements.Execute(ctx, &parserequirements.Input{
			ScopeOfSupply: p.Sections.ScopeOfSupply,
		})
		if err != nil {
			return "", nil, err
		}
		p.Items = out.Items
		return fmt.Sprintf("parsed %d requirement items", len(out.Items)), toOutputMap(out), nil

	case 2:
		out, err := o.handlers.MatchProducts.Execute(ctx, &matchproducts.Input{Items: p.Items})
		if err != nil {
			return "", nil, err
		}
		p.Matches = out.Results
		return fmt.Sprintf("matched %d requirement items", len(out.Results)), toOutputMap(out), nil

	case 3:
		out, err := o.handlers.PriceItems.Execute(ctx, &priceitems.Input{
			Items:   p.Items,
			Matches: p.Matches,
		})
		if err != nil {
			return "", nil, err
		}
		p.Pricing = out.Pricing
		p.Total = out.TotalBidValue
		return fmt.Sprintf("priced %d items, total %s", len(out.Pricing), out.TotalBidValue), toOutputMap(out), nil

	case 4:
		out, err := o.handlers.ConsolidateBid.Execute(ctx, &consolidatebid.Input{
			RFPID:    p.RFPID,
			Title:    p.Title,
			DueDate:  p.DueDate,
			Sections: p.Sections,
			Items:    p.Items,
			Matches:  p.Matches,
			Pricing:  p.Pricing,
			Total:    p.Total,
		})
		if err != nil {
			return "", nil, err
		}
		bid := out.Bid
		w.FinalResponse = &bid
		return fmt.Sprintf("consolidated final bid, total %s", bid.TotalBidValue), toOutputMap(out), nil

	default:
		return "", nil, errors.NewWorkflowCompletedError(w.WorkflowID)
	}
}

func (o *Orchestrator) acquire(workflowID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[workflowID]; busy {
		return errors.NewWorkflowBusyError(workflowID)
	}
	o.inFlight[workflowID] = struct{}{}
	return nil
}

func (o *Orchestrator) release(workflowID string) {
	o.mu.Lock()
	delete(o.inFlight, workflowID)
	o.mu.Unlock()
}

// toOutputMap snapshots a typed step output into the generic step record.
func toOutputMap(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
