// Package display formats quotes for humans: whole currency units with
// thousands separators, the way prices are quoted to customers.
package display

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/fabricalc/internal/pricing"
)

// Line is one labelled row of a formatted quote.
type Line struct {
	Label  string
	Amount string
	Total  bool
}

// Money renders v as "$1,234", rounded to the nearest unit. Values outside
// the int64 range are formatted from the float directly.
func Money(v float64) string {
	rounded := math.Round(v)
	if rounded < 0 {
		return "-$" + comma(-rounded)
	}
	return "$" + comma(rounded)
}

func comma(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 0):
		return "∞"
	case v < math.MaxInt64:
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}

// Lines lists the breakdown in the order it is shown to the user.
func Lines(b pricing.Breakdown) []Line {
	return []Line{
		{Label: "Costo material", Amount: Money(b.MaterialCost)},
		{Label: "Costo electricidad", Amount: Money(b.ElectricityCost)},
		{Label: "Uso de la máquina", Amount: Money(b.DepreciationCost)},
		{Label: "Costo trabajo", Amount: Money(b.LaborCost)},
		{Label: "Costo envío", Amount: Money(b.ShippingCost)},
		{Label: "Costo total", Amount: Money(b.TotalCost), Total: true},
		{Label: "Precio final", Amount: Money(b.FinalPrice), Total: true},
	}
}
