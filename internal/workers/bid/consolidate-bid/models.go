// internal/workers/bid/consolidate-bid/models.go
package consolidatebid

import "rfp-bid-engine/internal/models"

type Input struct {
	RFPID    string                   `json:"rfp_id"`
	Title    string                   `json:"title"`
	DueDate  string                   `json:"due_date"`
	Sections models.ExtractedSections `json:"sections"`

	Items   []models.RequirementItem `json:"items"`
	Matches []models.MatchResult     `json:"matches"`
	Pricing []models.PricedItem      `json:"pricing"`
	Total   models.Money             `json:"total_bid_value"`
}

type Output struct {
	Bid models.FinalBid `json:"bid"`
}
