// internal/workers/bid/match-products/models.go
package matchproducts

import "rfp-bid-engine/internal/models"

type Input struct {
	Items []models.RequirementItem `json:"items"`
}

type Output struct {
	Results []models.MatchResult `json:"results"`
}
