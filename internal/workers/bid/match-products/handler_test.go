// internal/workers/bid/match-products/handler_test.go
package matchproducts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-bid-engine/internal/catalog"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, TopMatches: 3}
}

func createTestStore(products []catalog.ProductRecord) *catalog.Store {
	return catalog.NewStore(products, nil, nil, nil)
}

func createTestHandler(t *testing.T, products []catalog.ProductRecord) *Handler {
	t.Helper()
	return NewHandler(createTestConfig(), createTestStore(products), logger.NewTestLogger(t))
}

func cableProduct(sku, size, cores, material string) catalog.ProductRecord {
	return catalog.ProductRecord{
		SKU: sku,
		Attributes: map[string]string{
			"conductor_size_sqmm": size,
			"cores":               cores,
			"conductor_material":  material,
		},
	}
}

func TestExtractTargets(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        map[string]string
	}{
		{
			name:        "full cable description",
			description: "100 m 400 sqmm 3 core aluminium XLPE armoured cable 1100 V",
			want: map[string]string{
				"conductor_size_sqmm": "400",
				"cores":               "3",
				"conductor_material":  "aluminium",
				"insulation":          "xlpe",
				"armour_type":         "armoured",
				"voltage_rating":      "1100",
			},
		},
		{
			name:        "unarmoured beats armoured",
			description: "240 sqmm copper PVC unarmoured cable",
			want: map[string]string{
				"conductor_size_sqmm": "240",
				"conductor_material":  "copper",
				"insulation":          "pvc",
				"armour_type":         "unarmoured",
			},
		},
		{
			name:        "spaced size unit",
			description: "185 sq. mm 4 core cable",
			want: map[string]string{
				"conductor_size_sqmm": "185",
				"cores":               "4",
			},
		},
		{
			name:        "nothing recognizable",
			description: "Control panel with accessories",
			want:        map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTargets(tt.description))
		})
	}
}

func TestExecute_RanksByScoreThenSKU(t *testing.T) {
	products := []catalog.ProductRecord{
		cableProduct("SKU-010", "400", "4", "copper"),
		cableProduct("SKU-002", "400", "3", "aluminium"),
		cableProduct("SKU-005", "400", "2", "steel"),
		cableProduct("SKU-001", "120", "1", "steel"),
	}
	handler := createTestHandler(t, products)

	input := &Input{Items: []models.RequirementItem{{
		ID:          "REQ-001",
		Description: "400 sqmm 3 core copper cable",
		Quantity:    100,
		Unit:        "m",
	}}}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Results, 1)

	result := output.Results[0]
	assert.Equal(t, "REQ-001", result.RequirementItemID)
	require.Len(t, result.TopMatches, 3)

	// SKU-002 and SKU-010 both match 2 of 3 extracted attributes; the tie
	// breaks on ascending sku.
	assert.Equal(t, "SKU-002", result.TopMatches[0].SKU)
	assert.InDelta(t, 66.67, result.TopMatches[0].MatchPercent, 0.001)
	assert.Equal(t, "SKU-010", result.TopMatches[1].SKU)
	assert.InDelta(t, 66.67, result.TopMatches[1].MatchPercent, 0.001)
	assert.Equal(t, "SKU-005", result.TopMatches[2].SKU)
	assert.InDelta(t, 33.33, result.TopMatches[2].MatchPercent, 0.001)

	assert.Equal(t, "SKU-002", result.ChosenSKU)
}

func TestExecute_RecordsDifferences(t *testing.T) {
	products := []catalog.ProductRecord{
		cableProduct("SKU-002", "400", "3", "aluminium"),
	}
	handler := createTestHandler(t, products)

	input := &Input{Items: []models.RequirementItem{{
		ID:          "REQ-001",
		Description: "400 sqmm 3 core copper cable",
	}}}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	top := output.Results[0].TopMatches[0]
	require.Contains(t, top.Differences, "conductor_material")
	assert.Equal(t, models.AttributeDiff{
		Required: "copper",
		Catalog:  "aluminium",
	}, top.Differences["conductor_material"])
	assert.NotContains(t, top.Differences, "conductor_size_sqmm")
	assert.NotContains(t, top.Differences, "cores")
}

func TestExecute_NoExtractableAttributes(t *testing.T) {
	products := []catalog.ProductRecord{
		cableProduct("SKU-001", "400", "3", "copper"),
		cableProduct("SKU-002", "240", "4", "aluminium"),
	}
	handler := createTestHandler(t, products)

	input := &Input{Items: []models.RequirementItem{{
		ID:          "REQ-001",
		Description: "Control panel with accessories",
		Quantity:    1,
	}}}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	result := output.Results[0]
	assert.Empty(t, result.ChosenSKU)
	for _, c := range result.TopMatches {
		assert.Zero(t, c.MatchPercent)
	}
}

func TestExecute_MissingCatalogAttributeCountsAsMismatch(t *testing.T) {
	products := []catalog.ProductRecord{
		{SKU: "SKU-001", Attributes: map[string]string{"conductor_size_sqmm": "400"}},
	}
	handler := createTestHandler(t, products)

	input := &Input{Items: []models.RequirementItem{{
		ID:          "REQ-001",
		Description: "400 sqmm XLPE cable",
	}}}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	top := output.Results[0].TopMatches[0]
	assert.InDelta(t, 50.0, top.MatchPercent, 0.001)
	assert.Equal(t, models.AttributeDiff{Required: "xlpe", Catalog: ""}, top.Differences["insulation"])
}

func TestExecute_EmptyCatalog(t *testing.T) {
	handler := createTestHandler(t, nil)

	input := &Input{Items: []models.RequirementItem{{
		ID:          "REQ-001",
		Description: "400 sqmm cable",
	}}}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, output.Results[0].TopMatches)
	assert.Empty(t, output.Results[0].ChosenSKU)
}
