package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/fabricalc/internal/pricing"
)

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		0:        "$0",
		428.5714: "$429",
		999.4:    "$999",
		14559.75: "$14,560",
		35277.65: "$35,278",
		1200000:  "$1,200,000",
		-1500.2:  "-$1,500",
	}
	for in, want := range cases {
		assert.Equal(t, want, Money(in), "Money(%v)", in)
	}
}

func TestMoneyBeyondInt64(t *testing.T) {
	assert.Equal(t, "$10,000,000,000,000,000,000", Money(1e19))
	assert.Equal(t, "-$10,000,000,000,000,000,000", Money(-1e19))
	assert.Equal(t, "$∞", Money(math.Inf(1)))
	assert.NotContains(t, Money(math.MaxFloat64), "-")
}

func TestLinesOrderAndTotals(t *testing.T) {
	lines := Lines(pricing.Breakdown{
		MaterialCost:     3000,
		ElectricityCost:  1210,
		DepreciationCost: 428.57,
		LaborCost:        14559.75,
		ShippingCost:     6000,
		TotalCost:        25198.32,
		FinalPrice:       35277.65,
	})

	require.Len(t, lines, 7)
	assert.Equal(t, "Costo material", lines[0].Label)
	assert.Equal(t, "$3,000", lines[0].Amount)
	assert.Equal(t, "Precio final", lines[6].Label)
	assert.Equal(t, "$35,278", lines[6].Amount)
	assert.True(t, lines[5].Total)
	assert.False(t, lines[4].Total)
}
