// internal/workers/bid/extract-document/handler.go
package extractdocument

import (
	"context"
	stderrors "errors"

	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/listings"
	"rfp-bid-engine/internal/models"
)

const (
	TaskType = "extract-document"
)

// SectionExtractor is the slice of the inference service this step needs.
type SectionExtractor interface {
	ExtractSections(ctx context.Context, documentText string) (*models.ExtractedSections, error)
}

type Handler struct {
	config    *Config
	extractor SectionExtractor
	selector  *listings.Selector
	logger    logger.Logger
}

func NewHandler(config *Config, extractor SectionExtractor, selector *listings.Selector, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		extractor: extractor,
		selector:  selector,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute resolves the proposal document and asks the inference collaborator
// for its three structured sections. The inference call is bounded by the
// configured timeout; a deadline hit surfaces as a retryable timeout error so
// the step can be re-executed verbatim.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{
		RFPID:   input.RFPID,
		Title:   input.Title,
		DueDate: input.DueDate,
	}

	text := input.DocumentText
	if text == "" {
		if h.selector == nil {
			return nil, errors.NewNoListingAvailableError("no inline document and no listing selector configured")
		}

		entries, err := h.selector.Load()
		if err != nil {
			return nil, err
		}
		listing, err := h.selector.Pick(entries)
		if err != nil {
			return nil, err
		}
		text, err = h.selector.ReadDocument(listing)
		if err != nil {
			return nil, errors.NewNoListingAvailableError(err.Error())
		}

		output.RFPID = listing.RFPID
		output.Title = listing.Title
		output.DueDate = listing.DueDate
	}

	callCtx, cancel := context.WithTimeout(ctx, h.config.timeout())
	defer cancel()

	sections, err := h.extractor.ExtractSections(callCtx, text)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			h.logger.WithError(err).Error("section extraction timed out", map[string]interface{}{
				"rfpId":   output.RFPID,
				"timeout": h.config.timeout().String(),
			})
			return nil, errors.NewInferenceTimeoutError("extract_sections")
		}
		h.logger.WithError(err).Error("section extraction failed", map[string]interface{}{
			"rfpId": output.RFPID,
		})
		return nil, errors.NewInferenceFailedError("extract_sections", err)
	}

	output.Sections = *sections
	h.logger.Info("extracted document sections", map[string]interface{}{
		"rfpId":       output.RFPID,
		"scopeLength": len(sections.ScopeOfSupply),
	})
	return output, nil
}
