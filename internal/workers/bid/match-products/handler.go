// internal/workers/bid/match-products/handler.go
package matchproducts

import (
	"context"

	"rfp-bid-engine/internal/catalog"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

const (
	TaskType = "match-products"
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

// Execute ranks catalog products for every requirement item. Matching is pure
// table lookup over the loaded catalog; it never calls out and never fails
// per item, an unmatchable item simply carries an empty chosen sku.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	products := h.catalog.Products()

	results := make([]models.MatchResult, 0, len(input.Items))
	for _, item := range input.Items {
		result := Match(item, products, h.config.topMatches())
		if result.ChosenSKU == "" {
			h.logger.Warn("no catalog match for requirement item", map[string]interface{}{
				"itemId":      item.ID,
				"description": item.Description,
			})
		}
		results = append(results, result)
	}

	h.logger.Info("matched requirement items", map[string]interface{}{
		"items":    len(input.Items),
		"catalog":  h.catalog.Size(),
		"topLimit": h.config.topMatches(),
	})

	return &Output{Results: results}, nil
}
