package prolabore

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleInput(current string) Input {
	return Input{
		RevenueServices: d("10000"),
		RevenueProducts: d("5000"),
		VariableSales:   d("10"),
		VariableTaxes:   d("6"),
		FixedMonthly:    d("3000"),
		FixedProLabore:  d(current),
	}
}

func TestCalculate(t *testing.T) {
	result, err := Calculate(sampleInput("2500"))
	require.NoError(t, err)

	assert.Equal(t, "15000.00", result.TotalRevenue.StringFixed(2))
	assert.True(t, result.VariableCostRate.Equal(d("0.16")))
	assert.Equal(t, "9600.00", result.Preliminary.StringFixed(2))
	assert.Equal(t, "2880.00", result.MaximumRecommended.StringFixed(2))
	assert.Equal(t, StatusWithin, result.Status)
}

func TestCalculateStatus(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  Status
	}{
		{name: "at the limit", input: sampleInput("2880"), want: StatusWithin},
		{name: "above the limit", input: sampleInput("3000"), want: StatusAbove},
		{name: "costs exceed revenue", input: Input{RevenueServices: d("1000"), FixedMonthly: d("5000")}, want: StatusNoMargin},
		{name: "empty input", input: Input{}, want: StatusNoMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "negative revenue", input: Input{RevenueServices: d("-1")}},
		{name: "percentage above 100", input: Input{VariableTaxes: d("101")}},
		{name: "unknown field", input: Input{"bonus": d("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestFieldGroups(t *testing.T) {
	assert.Len(t, Fields(Revenue), 3)
	assert.Len(t, Fields(FixedCosts), 2)
	assert.Len(t, Fields(VariableCosts), 6)

	for _, g := range Groups() {
		for _, id := range Fields(g) {
			got, ok := GroupOf(id)
			require.True(t, ok, id)
			assert.Equal(t, g, got)
		}
	}
	_, ok := GroupOf("bonus")
	assert.False(t, ok)
	assert.Equal(t, "variable_costs", VariableCosts.String())
}
