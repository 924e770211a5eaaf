package costmodel

import (
	"math"
	"sort"
	"strings"
)

// CostModel holds the persisted cost parameters used to price a print job.
type CostModel struct {
	// Materials maps a material name to its price per kilogram.
	Materials            map[string]float64
	ElectricityRate      float64 // currency per kWh
	PowerDrawKw          float64
	PrinterPrice         float64
	PrinterLifetimeHours float64
	LocalShippingFee     float64
	NationalShippingFee  float64
	LaborRate            float64 // currency per hour
	WastePercent         float64
}

// Defaults returns the built-in cost model installed on first run and on reset.
func Defaults() CostModel {
	return CostModel{
		Materials:            DefaultMaterials(),
		ElectricityRate:      968,
		PowerDrawKw:          0.5,
		PrinterPrice:         1200000,
		PrinterLifetimeHours: 7000,
		LocalShippingFee:     6000,
		NationalShippingFee:  12000,
		LaborRate:            6471,
		WastePercent:         100,
	}
}

// DefaultMaterials returns a fresh copy of the default material price table.
func DefaultMaterials() map[string]float64 {
	return map[string]float64{
		"PLA Wood": 150000,
		"PETG":     120000,
		"PLA+":     90000,
	}
}

// Clone returns a deep copy so callers never share the materials map.
func (m CostModel) Clone() CostModel {
	out := m
	out.Materials = make(map[string]float64, len(m.Materials))
	for name, price := range m.Materials {
		out.Materials[name] = price
	}
	return out
}

// MaterialNames returns the material names in lexical order.
func (m CostModel) MaterialNames() []string {
	names := make([]string, 0, len(m.Materials))
	for name := range m.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaterialPrice looks up the price per kilogram of a material.
func (m CostModel) MaterialPrice(name string) (float64, error) {
	price, ok := m.Materials[name]
	if !ok {
		return 0, &LookupError{Material: name}
	}
	return price, nil
}

// WithMaterial returns a copy of the model with name set to price.
func (m CostModel) WithMaterial(name string, price float64) CostModel {
	out := m.Clone()
	out.Materials[name] = price
	return out
}

// Validate checks every field against its domain. Field names in the returned
// error match the keys of the persisted file.
func (m CostModel) Validate() error {
	for _, name := range m.MaterialNames() {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Field: "materiales", Reason: "el nombre del material es requerido"}
		}
		if err := checkPositive("materiales."+name, m.Materials[name]); err != nil {
			return err
		}
	}

	positives := []struct {
		field string
		value float64
	}{
		{"electricidad_kwh", m.ElectricityRate},
		{"consumo_kw_por_hora", m.PowerDrawKw},
		{"precio_impresora", m.PrinterPrice},
		{"vida_util_horas", m.PrinterLifetimeHours},
		{"precio_hora_trabajo", m.LaborRate},
	}
	for _, p := range positives {
		if err := checkPositive(p.field, p.value); err != nil {
			return err
		}
	}

	nonNegatives := []struct {
		field string
		value float64
	}{
		{"envio_local", m.LocalShippingFee},
		{"envio_nacional", m.NationalShippingFee},
		{"factor_desperdicio", m.WastePercent},
	}
	for _, n := range nonNegatives {
		if err := checkNonNegative(n.field, n.value); err != nil {
			return err
		}
	}

	return nil
}

func checkFinite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ValidationError{Field: field, Reason: "debe ser numérico"}
	}
	return nil
}

func checkPositive(field string, value float64) error {
	if err := checkFinite(field, value); err != nil {
		return err
	}
	if value <= 0 {
		return &ValidationError{Field: field, Reason: "debe ser mayor a 0"}
	}
	return nil
}

func checkNonNegative(field string, value float64) error {
	if err := checkFinite(field, value); err != nil {
		return err
	}
	if value < 0 {
		return &ValidationError{Field: field, Reason: "debe ser mayor o igual a 0"}
	}
	return nil
}
