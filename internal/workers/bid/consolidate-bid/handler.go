// internal/workers/bid/consolidate-bid/handler.go
package consolidatebid

import (
	"context"
	stderrors "errors"

	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

const (
	TaskType = "consolidate-bid"
)

// Summarizer is the slice of the inference service this step needs.
type Summarizer interface {
	Summarize(ctx context.Context, bid *models.FinalBid) (string, error)
}

type Handler struct {
	config     *Config
	summarizer Summarizer
	logger     logger.Logger
}

func NewHandler(config *Config, summarizer Summarizer, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		summarizer: summarizer,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute assembles the final bid from all upstream step outputs and attaches
// the narrative summary. Technical items and pricing stay in requirement
// order; the grand total is carried over from the pricing step unchanged.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Items) != len(input.Matches) {
		return nil, errors.NewRequirementParseFailedError("items and match results are out of sync")
	}

	technical := make([]models.TechnicalItem, 0, len(input.Items))
	for i, item := range input.Items {
		technical = append(technical, models.TechnicalItem{
			Item:       item,
			TopMatches: input.Matches[i].TopMatches,
			ChosenSKU:  input.Matches[i].ChosenSKU,
		})
	}

	bid := models.FinalBid{
		RFPID:                   input.RFPID,
		RFPTitle:                input.Title,
		RFPDueDate:              input.DueDate,
		ScopeOfSupply:           input.Sections.ScopeOfSupply,
		TechnicalSpecifications: input.Sections.TechnicalSpecifications,
		TestingRequirements:     input.Sections.TestingRequirements,
		TechnicalItems:          technical,
		Pricing:                 input.Pricing,
		TotalBidValue:           input.Total,
	}
	if len(bid.Pricing) == 0 {
		bid.Pricing = []models.PricedItem{}
		bid.Notes = "no requirement items were parsed from the proposal"
	}

	if h.summarizer != nil {
		callCtx, cancel := context.WithTimeout(ctx, h.config.timeout())
		defer cancel()

		summary, err := h.summarizer.Summarize(callCtx, &bid)
		if err != nil {
			if stderrors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
				return nil, errors.NewInferenceTimeoutError("summarize")
			}
			h.logger.WithError(err).Error("bid summary generation failed", map[string]interface{}{
				"rfpId": input.RFPID,
			})
			return nil, errors.NewInferenceFailedError("summarize", err)
		}
		bid.NarrativeSummary = summary
	}

	h.logger.Info("consolidated final bid", map[string]interface{}{
		"rfpId": input.RFPID,
		"items": len(bid.Pricing),
		"total": bid.TotalBidValue.String(),
	})

	return &Output{Bid: bid}, nil
}
