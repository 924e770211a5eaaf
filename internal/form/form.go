// Package form turns raw user strings, from the web UI or CLI flags, into
// domain values. Field names match the HTML form inputs.
package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/fabricalc/internal/costmodel"
)

const (
	FieldMaterial      = "material"
	FieldWeightGrams   = "weight_grams"
	FieldPrintHours    = "print_hours"
	FieldPrintMinutes  = "print_minutes"
	FieldShipping      = "shipping"
	FieldProfitPercent = "profit_percent"
	FieldPostMinutes   = "post_minutes"

	FieldMaterialName         = "material_name"
	FieldMaterialPrice        = "material_price"
	FieldElectricityRate      = "electricity_rate"
	FieldPowerDrawKw          = "power_draw_kw"
	FieldPrinterPrice         = "printer_price"
	FieldPrinterLifetimeHours = "printer_lifetime_hours"
	FieldLocalShippingFee     = "local_shipping_fee"
	FieldNationalShippingFee  = "national_shipping_fee"
	FieldLaborRate            = "labor_rate"
	FieldWastePercent         = "waste_percent"

	FieldNewMaterialName  = "new_material_name"
	FieldNewMaterialPrice = "new_material_price"
)

// PrintJobDefaults are the values the calculator form starts with.
func PrintJobDefaults() url.Values {
	return url.Values{
		FieldWeightGrams:   {"10"},
		FieldPrintHours:    {"0"},
		FieldPrintMinutes:  {"0"},
		FieldShipping:      {string(costmodel.ShippingPersonal)},
		FieldProfitPercent: {"40"},
		FieldPostMinutes:   {"60"},
	}
}

// ParsePrintJob builds a PrintJob, stopping at the first invalid field.
func ParsePrintJob(values url.Values) (costmodel.PrintJob, error) {
	job := costmodel.PrintJob{MaterialName: strings.TrimSpace(values.Get(FieldMaterial))}
	if job.MaterialName == "" {
		return job, &costmodel.ValidationError{Field: "material", Reason: "es requerido"}
	}

	var err error
	if job.WeightGrams, err = costmodel.ParsePositive("peso", values.Get(FieldWeightGrams)); err != nil {
		return job, err
	}
	if job.PrintHours, err = costmodel.ParseNonNegative("horas", values.Get(FieldPrintHours)); err != nil {
		return job, err
	}
	if job.PrintMinutes, err = costmodel.ParseNonNegative("minutos", values.Get(FieldPrintMinutes)); err != nil {
		return job, err
	}
	if job.ShippingMode, err = costmodel.ParseShippingMode(values.Get(FieldShipping)); err != nil {
		return job, err
	}
	if job.ProfitPercent, err = costmodel.ParseNonNegative("ganancia", values.Get(FieldProfitPercent)); err != nil {
		return job, err
	}
	if job.PostProcessingMinutes, err = costmodel.ParseNonNegative("post_procesado", values.Get(FieldPostMinutes)); err != nil {
		return job, err
	}

	return job, nil
}

// EncodeCostModel renders a model as form values, the inverse of ParseCostModel.
func EncodeCostModel(model costmodel.CostModel) url.Values {
	values := url.Values{}
	for _, name := range model.MaterialNames() {
		values.Add(FieldMaterialName, name)
		values.Add(FieldMaterialPrice, formatNumber(model.Materials[name]))
	}
	values.Set(FieldElectricityRate, formatNumber(model.ElectricityRate))
	values.Set(FieldPowerDrawKw, formatNumber(model.PowerDrawKw))
	values.Set(FieldPrinterPrice, formatNumber(model.PrinterPrice))
	values.Set(FieldPrinterLifetimeHours, formatNumber(model.PrinterLifetimeHours))
	values.Set(FieldLocalShippingFee, formatNumber(model.LocalShippingFee))
	values.Set(FieldNationalShippingFee, formatNumber(model.NationalShippingFee))
	values.Set(FieldLaborRate, formatNumber(model.LaborRate))
	values.Set(FieldWastePercent, formatNumber(model.WastePercent))
	return values
}

// ParseCostModel builds a complete CostModel from the configuration form.
// Materials arrive as parallel material_name / material_price lists.
func ParseCostModel(values url.Values) (costmodel.CostModel, error) {
	model := costmodel.CostModel{Materials: map[string]float64{}}

	names := values[FieldMaterialName]
	prices := values[FieldMaterialPrice]
	if len(names) != len(prices) {
		return model, &costmodel.ValidationError{Field: "materiales", Reason: "lista de precios incompleta"}
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return model, &costmodel.ValidationError{Field: "materiales", Reason: "el nombre del material es requerido"}
		}
		if _, dup := model.Materials[name]; dup {
			return model, &costmodel.ValidationError{Field: "materiales", Reason: fmt.Sprintf("material %q repetido", name)}
		}
		price, err := costmodel.ParsePositive(name, prices[i])
		if err != nil {
			return model, err
		}
		model.Materials[name] = price
	}

	positives := []struct {
		field string
		dst   *float64
	}{
		{FieldElectricityRate, &model.ElectricityRate},
		{FieldPowerDrawKw, &model.PowerDrawKw},
		{FieldPrinterPrice, &model.PrinterPrice},
		{FieldPrinterLifetimeHours, &model.PrinterLifetimeHours},
		{FieldLaborRate, &model.LaborRate},
	}
	for _, p := range positives {
		v, err := costmodel.ParsePositive(fieldLabels[p.field], values.Get(p.field))
		if err != nil {
			return model, err
		}
		*p.dst = v
	}

	nonNegatives := []struct {
		field string
		dst   *float64
	}{
		{FieldLocalShippingFee, &model.LocalShippingFee},
		{FieldNationalShippingFee, &model.NationalShippingFee},
		{FieldWastePercent, &model.WastePercent},
	}
	for _, n := range nonNegatives {
		v, err := costmodel.ParseNonNegative(fieldLabels[n.field], values.Get(n.field))
		if err != nil {
			return model, err
		}
		*n.dst = v
	}

	return model, nil
}

// fieldLabels are the names shown to the user in validation messages.
var fieldLabels = map[string]string{
	FieldElectricityRate:      "Precio electricidad",
	FieldPowerDrawKw:          "Consumo",
	FieldPrinterPrice:         "Precio impresora",
	FieldPrinterLifetimeHours: "Vida útil",
	FieldLocalShippingFee:     "Envío local",
	FieldNationalShippingFee:  "Envío nacional",
	FieldLaborRate:            "Precio hora trabajo",
	FieldWastePercent:         "Factor desperdicio",
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
