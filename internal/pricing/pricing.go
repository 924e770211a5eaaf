package pricing

import (
	"math"

	"github.com/Simplici0/fabricalc/internal/costmodel"
)

// Breakdown contains every line item of a quote. Values are exact; rounding is
// left to the presentation layer.
type Breakdown struct {
	MaterialCost     float64
	ElectricityCost  float64
	DepreciationCost float64
	LaborCost        float64
	ShippingCost     float64
	TotalCost        float64
	FinalPrice       float64
}

// Compute prices a print job against a cost model. It has no side effects and
// returns either a full breakdown or an error, never a partial result.
func Compute(job costmodel.PrintJob, model costmodel.CostModel) (Breakdown, error) {
	if err := job.Validate(); err != nil {
		return Breakdown{}, err
	}
	unitPrice, err := model.MaterialPrice(job.MaterialName)
	if err != nil {
		return Breakdown{}, err
	}
	if model.PrinterLifetimeHours == 0 {
		return Breakdown{}, costmodel.ErrDivisionByZero
	}
	if err := model.Validate(); err != nil {
		return Breakdown{}, err
	}
	shippingCost, err := shippingFee(job.ShippingMode, model)
	if err != nil {
		return Breakdown{}, err
	}

	weightKg := job.WeightGrams / 1000.0
	printTimeHours := job.PrintHours + job.PrintMinutes/60.0
	postTimeHours := job.PostProcessingMinutes / 60.0
	wasteFactor := 1.0 + model.WastePercent/100.0

	materialCost := weightKg * wasteFactor * unitPrice
	electricityCost := printTimeHours * model.PowerDrawKw * model.ElectricityRate
	depreciationCost := (printTimeHours / model.PrinterLifetimeHours) * model.PrinterPrice
	// Printing is half-attended; post-processing is fully attended.
	laborCost := (printTimeHours/2.0 + postTimeHours) * model.LaborRate

	totalCost := materialCost + electricityCost + depreciationCost + laborCost + shippingCost
	finalPrice := totalCost * (1.0 + job.ProfitPercent/100.0)

	b := Breakdown{
		MaterialCost:     materialCost,
		ElectricityCost:  electricityCost,
		DepreciationCost: depreciationCost,
		LaborCost:        laborCost,
		ShippingCost:     shippingCost,
		TotalCost:        totalCost,
		FinalPrice:       finalPrice,
	}
	if err := b.checkFinite(); err != nil {
		return Breakdown{}, err
	}
	return b, nil
}

// checkFinite rejects breakdowns whose inputs were valid but large enough to
// overflow float64.
func (b Breakdown) checkFinite() error {
	terms := []struct {
		field string
		value float64
	}{
		{"costo_material", b.MaterialCost},
		{"costo_electricidad", b.ElectricityCost},
		{"uso_maquina", b.DepreciationCost},
		{"costo_trabajo", b.LaborCost},
		{"costo_envio", b.ShippingCost},
		{"costo_total", b.TotalCost},
		{"precio_final", b.FinalPrice},
	}
	for _, t := range terms {
		if math.IsInf(t.value, 0) || math.IsNaN(t.value) {
			return &costmodel.ValidationError{Field: t.field, Reason: "resultado fuera de rango"}
		}
	}
	return nil
}

// shippingFee normalizes mode first so aliases such as "National" work for
// jobs built in code as well as parsed ones.
func shippingFee(mode costmodel.ShippingMode, model costmodel.CostModel) (float64, error) {
	mode, err := costmodel.ParseShippingMode(string(mode))
	if err != nil {
		return 0, err
	}
	switch mode {
	case costmodel.ShippingPersonal:
		return 0, nil
	case costmodel.ShippingLocal:
		return model.LocalShippingFee, nil
	case costmodel.ShippingNational:
		return model.NationalShippingFee, nil
	}
	return 0, &costmodel.ValidationError{Field: "envio", Reason: "tipo de envío no reconocido"}
}
