// internal/notify/sns_test.go
package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-bid-engine/internal/common/config"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

type fakePublisher struct {
	topicARN string
	subject  string
	message  string
	err      error
	calls    int
}

func (f *fakePublisher) PublishMessage(ctx context.Context, topicARN, subject, message string) error {
	f.calls++
	f.topicARN = topicARN
	f.subject = subject
	f.message = message
	return f.err
}

func completedWorkflow() *models.WorkflowInstance {
	return &models.WorkflowInstance{
		WorkflowID:  "wf-1",
		CurrentStep: 5,
		TotalSteps:  5,
		FinalResponse: &models.FinalBid{
			RFPID:         "RFP-7",
			RFPTitle:      "HT Cable Package",
			Pricing:       []models.PricedItem{{RequirementItemID: "REQ-001"}},
			TotalBidValue: models.Money(15050000),
		},
	}
}

func createNotifier(t *testing.T, publisher Publisher) *SNSNotifier {
	t.Helper()
	cfg := config.SNSConfig{Enabled: true, Region: "ap-south-1", TopicARN: "arn:aws:sns:ap-south-1:123:bids"}
	return NewSNSNotifier(cfg, publisher, logger.NewTestLogger(t))
}

func TestBidCompleted_PublishesEvent(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := createNotifier(t, publisher)

	err := notifier.BidCompleted(context.Background(), completedWorkflow())
	require.NoError(t, err)
	assert.Equal(t, 1, publisher.calls)
	assert.Equal(t, "arn:aws:sns:ap-south-1:123:bids", publisher.topicARN)
	assert.Equal(t, "Bid ready for RFP-7", publisher.subject)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(publisher.message), &event))
	assert.Equal(t, "wf-1", event["workflow_id"])
	assert.Equal(t, "RFP-7", event["rfp_id"])
	assert.Equal(t, float64(1), event["line_items"])
	assert.Equal(t, "150500.00", event["total_bid_value"])
}

func TestBidCompleted_PublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: stderrors.New("topic gone")}
	notifier := createNotifier(t, publisher)

	err := notifier.BidCompleted(context.Background(), completedWorkflow())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish completion event")
}

func TestBidCompleted_RequiresFinalBid(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := createNotifier(t, publisher)

	err := notifier.BidCompleted(context.Background(), &models.WorkflowInstance{WorkflowID: "wf-2"})
	require.Error(t, err)
	assert.Zero(t, publisher.calls)
}
