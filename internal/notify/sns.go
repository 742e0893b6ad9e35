// internal/notify/sns.go

// Package notify publishes workflow completion events. Delivery is best
// effort: the orchestrator logs and moves on when a publish fails.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"rfp-bid-engine/internal/common/config"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

// Publisher is the transport a notifier publishes through.
type Publisher interface {
	PublishMessage(ctx context.Context, topicARN, subject, message string) error
}

// completionEvent is the payload published per finished workflow.
type completionEvent struct {
	WorkflowID    string `json:"workflow_id"`
	RFPID         string `json:"rfp_id"`
	RFPTitle      string `json:"rfp_title"`
	LineItems     int    `json:"line_items"`
	TotalBidValue string `json:"total_bid_value"`
}

// SNSNotifier publishes a completion event to the configured topic.
type SNSNotifier struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewSNSNotifier(cfg config.SNSConfig, publisher Publisher, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{
		publisher: publisher,
		topicARN:  cfg.TopicARN,
		logger:    log.WithFields(map[string]interface{}{"component": "sns-notifier"}),
	}
}

// BidCompleted publishes one event for a workflow that produced its final bid.
func (n *SNSNotifier) BidCompleted(ctx context.Context, workflow *models.WorkflowInstance) error {
	if workflow == nil || workflow.FinalResponse == nil {
		return fmt.Errorf("workflow has no final bid")
	}

	bid := workflow.FinalResponse
	event := completionEvent{
		WorkflowID:    workflow.WorkflowID,
		RFPID:         bid.RFPID,
		RFPTitle:      bid.RFPTitle,
		LineItems:     len(bid.Pricing),
		TotalBidValue: bid.TotalBidValue.String(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode completion event: %w", err)
	}

	subject := fmt.Sprintf("Bid ready for %s", bid.RFPID)
	if err := n.publisher.PublishMessage(ctx, n.topicARN, subject, string(payload)); err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}

	n.logger.Info("published completion event", map[string]interface{}{
		"workflowId": workflow.WorkflowID,
		"rfpId":      bid.RFPID,
	})
	return nil
}
