// internal/workers/bid/parse-requirements/handler_test.go
package parserequirements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

func TestExecute_ParsesBulletedScope(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{ScopeOfSupply: "- 100 m 400 sqmm 3 core aluminium XLPE cable\n- 500 m 240 sqmm copper cable\n- Control panel"}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Items, 3)

	assert.Equal(t, models.RequirementItem{
		ID:          "REQ-001",
		Description: "100 m 400 sqmm 3 core aluminium XLPE cable",
		Quantity:    100,
		Unit:        "m",
	}, output.Items[0])

	assert.Equal(t, "REQ-002", output.Items[1].ID)
	assert.Equal(t, 500, output.Items[1].Quantity)
	assert.Equal(t, "m", output.Items[1].Unit)

	// No leading quantity defaults to one unitless item.
	assert.Equal(t, "REQ-003", output.Items[2].ID)
	assert.Equal(t, "Control panel", output.Items[2].Description)
	assert.Equal(t, 1, output.Items[2].Quantity)
	assert.Equal(t, "", output.Items[2].Unit)
}

func TestExecute_EmptyInput(t *testing.T) {
	handler := createTestHandler(t)

	tests := []struct {
		name  string
		scope string
	}{
		{name: "empty string", scope: ""},
		{name: "whitespace only", scope: "   \n\t\n  "},
		{name: "bare markers", scope: "-\n*\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{ScopeOfSupply: tt.scope})
			require.NoError(t, err)
			assert.Empty(t, output.Items)
		})
	}
}

func TestExecute_LineAndEnumerationMarkers(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{ScopeOfSupply: "1. 10 sets junction boxes\n2) 25 nos cable glands\n300 m earthing strip"}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Items, 3)

	assert.Equal(t, "10 sets junction boxes", output.Items[0].Description)
	assert.Equal(t, 10, output.Items[0].Quantity)
	assert.Equal(t, "sets", output.Items[0].Unit)

	assert.Equal(t, 25, output.Items[1].Quantity)
	assert.Equal(t, "nos", output.Items[1].Unit)

	assert.Equal(t, 300, output.Items[2].Quantity)
	assert.Equal(t, "m", output.Items[2].Unit)
}

func TestExecute_QuantityUnitVariants(t *testing.T) {
	handler := createTestHandler(t)

	tests := []struct {
		name     string
		line     string
		quantity int
		unit     string
	}{
		{name: "kilometres", line: "- 2 km HT cable", quantity: 2, unit: "km"},
		{name: "metres spelled out", line: "- 750 metres LT cable", quantity: 750, unit: "metres"},
		{name: "pieces", line: "- 40 pcs lugs", quantity: 40, unit: "pcs"},
		{name: "number without unit", line: "- 400 sqmm cable", quantity: 1, unit: ""},
		{name: "zero quantity ignored", line: "- 0 m spare drum", quantity: 1, unit: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{ScopeOfSupply: tt.line})
			require.NoError(t, err)
			require.Len(t, output.Items, 1)
			assert.Equal(t, tt.quantity, output.Items[0].Quantity)
			assert.Equal(t, tt.unit, output.Items[0].Unit)
		})
	}
}

func TestExecute_OrderAndIDsAreStable(t *testing.T) {
	handler := createTestHandler(t)

	input := &Input{ScopeOfSupply: "- first item\n\n- second item\n- third item"}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, output.Items, 3)

	assert.Equal(t, "REQ-001", output.Items[0].ID)
	assert.Equal(t, "REQ-002", output.Items[1].ID)
	assert.Equal(t, "REQ-003", output.Items[2].ID)
	assert.Equal(t, "first item", output.Items[0].Description)
	assert.Equal(t, "second item", output.Items[1].Description)
	assert.Equal(t, "third item", output.Items[2].Description)
}
