// internal/workers/bid/price-items/models.go
package priceitems

import "rfp-bid-engine/internal/models"

type Input struct {
	Items   []models.RequirementItem `json:"items"`
	Matches []models.MatchResult     `json:"matches"`
}

type Output struct {
	Pricing       []models.PricedItem `json:"pricing"`
	TotalBidValue models.Money        `json:"total_bid_value"`
}
