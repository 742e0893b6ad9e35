// internal/models/bid.go
package models

// ExtractedSections is the structured text the inference collaborator returns
// for a proposal document.
type ExtractedSections struct {
	ScopeOfSupply           string `json:"scope_of_supply"`
	TechnicalSpecifications string `json:"technical_specifications"`
	TestingRequirements     string `json:"testing_requirements"`
}

// RequirementItem is one discrete ask parsed from the scope-of-supply text.
// Items are immutable once created and their order is significant: it indexes
// technical_items and pricing in the final bid 1:1.
type RequirementItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
}

// AttributeDiff records why a candidate did not fully match a requirement.
type AttributeDiff struct {
	Required string `json:"required"`
	Catalog  string `json:"catalog"`
}

// MatchCandidate is one scored catalog product.
type MatchCandidate struct {
	SKU          string                   `json:"sku"`
	MatchPercent float64                  `json:"match_percent"`
	Differences  map[string]AttributeDiff `json:"differences,omitempty"`
}

// MatchResult holds the ranked candidates for one requirement item.
// TopMatches is sorted descending by match percent, ties broken by ascending
// sku; ChosenSKU is empty when no candidate scored above zero.
type MatchResult struct {
	RequirementItemID string           `json:"requirement_item_id"`
	TopMatches        []MatchCandidate `json:"top_matches"`
	ChosenSKU         string           `json:"chosen_sku,omitempty"`
}

// TechnicalItem joins a requirement item with its match result for the final
// bid.
type TechnicalItem struct {
	Item       RequirementItem  `json:"requirement_item"`
	TopMatches []MatchCandidate `json:"top_matches"`
	ChosenSKU  string           `json:"chosen_sku,omitempty"`
}

// PricedItem is one costed line of the bid. TotalCost is always exactly
// MaterialCost + TestsCost, and MaterialCost exactly Quantity × UnitPrice.
type PricedItem struct {
	RequirementItemID string   `json:"requirement_item_id"`
	ChosenSKU         string   `json:"chosen_sku,omitempty"`
	Quantity          int      `json:"quantity"`
	UnitPrice         Money    `json:"unit_price"`
	MaterialCost      Money    `json:"material_cost"`
	TestsApplied      []string `json:"tests_applied"`
	TestsCost         Money    `json:"tests_cost"`
	TotalCost         Money    `json:"total_cost"`
	Warnings          []string `json:"warnings,omitempty"`
}

// FinalBid is the consolidated response for one workflow run.
// TechnicalItems and Pricing are parallel arrays indexed identically to the
// requirement item order.
type FinalBid struct {
	RFPID                   string          `json:"rfp_id"`
	RFPTitle                string          `json:"rfp_title"`
	RFPDueDate              string          `json:"rfp_due_date"`
	ScopeOfSupply           string          `json:"scope_of_supply"`
	TechnicalSpecifications string          `json:"technical_specifications"`
	TestingRequirements     string          `json:"testing_requirements"`
	TechnicalItems          []TechnicalItem `json:"technical_items"`
	Pricing                 []PricedItem    `json:"pricing"`
	TotalBidValue           Money           `json:"total_bid_value"`
	NarrativeSummary        string          `json:"narrative_summary,omitempty"`
	Notes                   string          `json:"notes,omitempty"`
}

// RFPListing is one entry of the prefetched listings file.
type RFPListing struct {
	RFPID   string `json:"rfp_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	DueDate string `json:"due_date"` // YYYY-MM-DD
}
