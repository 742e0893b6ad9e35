// internal/workers/bid/parse-requirements/models.go
package parserequirements

import "rfp-bid-engine/internal/models"

type Input struct {
	ScopeOfSupply string `json:"scope_of_supply"`
}

type Output struct {
	Items []models.RequirementItem `json:"items"`
}
