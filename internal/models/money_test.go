// internal/models/money_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Money
		wantErr bool
	}{
		{name: "whole number", input: "1500", want: 150000},
		{name: "two decimals", input: "1500.00", want: 150000},
		{name: "one decimal", input: "1500.5", want: 150050},
		{name: "small fraction", input: "0.07", want: 7},
		{name: "bare fraction", input: ".5", want: 50},
		{name: "negative", input: "-12.34", want: -1234},
		{name: "surrounding whitespace", input: " 42.00 ", want: 4200},
		{name: "too many decimals", input: "1.234", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "150500.00", Money(15050000).String())
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "0.07", Money(7).String())
	assert.Equal(t, "-12.34", Money(-1234).String())
}

func TestMoney_ArithmeticIsExact(t *testing.T) {
	unit, err := ParseMoney("1500.00")
	require.NoError(t, err)
	testPrice, err := ParseMoney("500.00")
	require.NoError(t, err)

	material := unit * Money(100)
	total := material + testPrice
	assert.Equal(t, "150000.00", material.String())
	assert.Equal(t, "150500.00", total.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Value Money `json:"value"`
	}

	data, err := json.Marshal(wrapper{Value: Money(15050000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 150500.00}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"value": 150500.00}`), &decoded))
	assert.Equal(t, Money(15050000), decoded.Value)

	// Quoted strings are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`{"value": "99.95"}`), &decoded))
	assert.Equal(t, Money(9995), decoded.Value)
}
