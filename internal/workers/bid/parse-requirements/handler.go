// internal/workers/bid/parse-requirements/handler.go
package parserequirements

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

const (
	TaskType = "parse-requirements"
)

var (
	// Leading list markers: bullets or enumerations like "1." / "2)".
	markerPattern = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

	// Leading quantity with a known unit token, e.g. "100 m" or "5 sets".
	quantityPattern = regexp.MustCompile(`(?i)^(\d+)\s*(km|m|meters?|metres?|nos|pcs|sets?|units?)\b`)
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute splits the scope-of-supply text into discrete requirement items.
// Empty or whitespace-only input yields an empty item list, not an error;
// downstream steps handle zero items by producing an empty bid.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	items := []models.RequirementItem{}

	for _, rawLine := range strings.Split(input.ScopeOfSupply, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		line = strings.TrimSpace(markerPattern.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		quantity := 1
		unit := ""
		if m := quantityPattern.FindStringSubmatch(line); m != nil {
			if q, err := strconv.Atoi(m[1]); err == nil && q > 0 {
				quantity = q
				unit = strings.ToLower(m[2])
			}
		}

		items = append(items, models.RequirementItem{
			ID:          fmt.Sprintf("REQ-%03d", len(items)+1),
			Description: line,
			Quantity:    quantity,
			Unit:        unit,
		})
	}

	h.logger.Info("parsed scope items", map[string]interface{}{
		"count": len(items),
	})

	return &Output{Items: items}, nil
}
