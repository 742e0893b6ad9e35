// internal/workers/bid/price-items/handler.go
package priceitems

import (
	"context"
	"fmt"
	"time"

	"rfp-bid-engine/internal/catalog"
	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

const (
	TaskType = "price-items"
)

type Handler struct {
	config  *Config
	catalog *catalog.Store
	logger  logger.Logger
}

func NewHandler(config *Config, store *catalog.Store, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: store,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute costs every requirement item against the price tables. Items and
// Matches are parallel arrays in requirement order; a length mismatch means
// an upstream step produced inconsistent output and is a hard error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Items) != len(input.Matches) {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodePriceLookupMiss,
			Message:   "Items and match results are out of sync",
			Details:   fmt.Sprintf("items: %d, matches: %d", len(input.Items), len(input.Matches)),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	pricing := make([]models.PricedItem, 0, len(input.Items))
	var total models.Money
	for i, item := range input.Items {
		priced := h.priceItem(item, input.Matches[i])
		total += priced.TotalCost
		pricing = append(pricing, priced)
	}

	h.logger.Info("priced requirement items", map[string]interface{}{
		"items": len(pricing),
		"total": total.String(),
	})

	return &Output{Pricing: pricing, TotalBidValue: total}, nil
}

// priceItem produces one costed line. All money math is integer arithmetic on
// minor units so line totals are exact. A missing price table entry prices as
// zero and records a warning instead of failing the step.
func (h *Handler) priceItem(item models.RequirementItem, match models.MatchResult) models.PricedItem {
	priced := models.PricedItem{
		RequirementItemID: item.ID,
		ChosenSKU:         match.ChosenSKU,
		Quantity:          item.Quantity,
		TestsApplied:      []string{},
	}

	if match.ChosenSKU == "" {
		priced.Warnings = append(priced.Warnings, "no catalog match; item priced at zero")
		return priced
	}

	unitPrice, ok := h.catalog.UnitPrice(match.ChosenSKU)
	if !ok {
		priced.Warnings = append(priced.Warnings,
			fmt.Sprintf("no unit price for sku %s; material cost set to zero", match.ChosenSKU))
		h.logger.Warn("unit price lookup miss", map[string]interface{}{
			"itemId": item.ID,
			"sku":    match.ChosenSKU,
		})
	}
	priced.UnitPrice = unitPrice
	priced.MaterialCost = unitPrice * models.Money(item.Quantity)

	for _, test := range h.catalog.TestsFor(match.ChosenSKU) {
		priced.TestsApplied = append(priced.TestsApplied, test)
		price, ok := h.catalog.TestPrice(test)
		if !ok {
			priced.Warnings = append(priced.Warnings,
				fmt.Sprintf("no price for test %q; charged at zero", test))
			h.logger.Warn("test price lookup miss", map[string]interface{}{
				"itemId": item.ID,
				"sku":    match.ChosenSKU,
				"test":   test,
			})
			continue
		}
		priced.TestsCost += price
	}

	priced.TotalCost = priced.MaterialCost + priced.TestsCost
	return priced
}
