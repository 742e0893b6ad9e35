// internal/workers/bid/match-products/matcher.go
package matchproducts

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"rfp-bid-engine/internal/catalog"
	"rfp-bid-engine/internal/models"
)

var (
	sizePattern    = regexp.MustCompile(`(?i)(\d+)\s*sq\.?\s*mm`)
	coresPattern   = regexp.MustCompile(`(?i)(\d+)\s*core`)
	voltagePattern = regexp.MustCompile(`(?i)(\d+)\s*v\b`)

	// Ordered choice lists; the first token found in the description wins.
	materialChoices   = []string{"aluminium", "aluminum", "copper"}
	insulationChoices = []string{"xlpe", "pvc"}
	armourChoices     = []string{"unarmoured", "steel wire armoured", "armoured"}
)

// ExtractTargets pulls the attribute values a requirement description asks
// for. Only keys from the shared attribute vocabulary are produced; keys the
// description is silent on are absent from the map.
func ExtractTargets(description string) map[string]string {
	targets := map[string]string{}
	lower := strings.ToLower(description)

	if m := sizePattern.FindStringSubmatch(description); m != nil {
		targets["conductor_size_sqmm"] = m[1]
	}
	if m := coresPattern.FindStringSubmatch(description); m != nil {
		targets["cores"] = m[1]
	}
	if m := voltagePattern.FindStringSubmatch(description); m != nil {
		targets["voltage_rating"] = m[1]
	}
	if v := firstChoice(lower, materialChoices); v != "" {
		targets["conductor_material"] = v
	}
	if v := firstChoice(lower, insulationChoices); v != "" {
		targets["insulation"] = v
	}
	if v := firstChoice(lower, armourChoices); v != "" {
		targets["armour_type"] = v
	}

	return targets
}

func firstChoice(lower string, choices []string) string {
	for _, c := range choices {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return ""
}

// Match scores every catalog product against one requirement item and returns
// the ranked result. The score denominator is the number of attributes the
// description actually specifies; a description with no recognizable
// attributes scores every product at zero and leaves ChosenSKU empty.
func Match(item models.RequirementItem, products []catalog.ProductRecord, topN int) models.MatchResult {
	targets := ExtractTargets(item.Description)

	candidates := make([]models.MatchCandidate, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, scoreProduct(p, targets))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].MatchPercent != candidates[j].MatchPercent {
			return candidates[i].MatchPercent > candidates[j].MatchPercent
		}
		return candidates[i].SKU < candidates[j].SKU
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	result := models.MatchResult{
		RequirementItemID: item.ID,
		TopMatches:        candidates,
	}
	if len(candidates) > 0 && candidates[0].MatchPercent > 0 {
		result.ChosenSKU = candidates[0].SKU
	}
	return result
}

func scoreProduct(p catalog.ProductRecord, targets map[string]string) models.MatchCandidate {
	candidate := models.MatchCandidate{SKU: p.SKU}
	if len(targets) == 0 {
		return candidate
	}

	matched := 0
	diffs := map[string]models.AttributeDiff{}
	for _, key := range catalog.AttributeVocabulary {
		want, ok := targets[key]
		if !ok {
			continue
		}
		if got := p.Attributes[key]; got == want {
			matched++
		} else {
			diffs[key] = models.AttributeDiff{Required: want, Catalog: got}
		}
	}

	candidate.MatchPercent = round2(100 * float64(matched) / float64(len(targets)))
	if len(diffs) > 0 {
		candidate.Differences = diffs
	}
	return candidate
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
