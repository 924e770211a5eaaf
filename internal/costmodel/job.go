package costmodel

import (
	"fmt"
	"strings"
)

// ShippingMode selects which flat shipping fee applies to a job.
type ShippingMode string

const (
	ShippingPersonal ShippingMode = "Personal"
	ShippingLocal    ShippingMode = "Local"
	ShippingNational ShippingMode = "Nacional"
)

// ShippingModes lists the modes in the order they are offered to the user.
var ShippingModes = []ShippingMode{ShippingPersonal, ShippingLocal, ShippingNational}

// ParseShippingMode accepts the labels shown in the UI, case-insensitively.
// "National" is accepted as an alias of "Nacional".
func ParseShippingMode(raw string) (ShippingMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "personal":
		return ShippingPersonal, nil
	case "local":
		return ShippingLocal, nil
	case "nacional", "national":
		return ShippingNational, nil
	}
	return "", &ValidationError{Field: "envio", Reason: fmt.Sprintf("tipo de envío %q no reconocido", raw)}
}

// PrintJob is the set of per-quote inputs collected from the user.
type PrintJob struct {
	MaterialName          string
	WeightGrams           float64
	PrintHours            float64
	PrintMinutes          float64
	ShippingMode          ShippingMode
	ProfitPercent         float64
	PostProcessingMinutes float64
}

// Validate checks the numeric domains of the job. It does not resolve the
// material; that happens against a cost model at pricing time.
func (j PrintJob) Validate() error {
	if strings.TrimSpace(j.MaterialName) == "" {
		return &ValidationError{Field: "material", Reason: "es requerido"}
	}
	if err := checkPositive("peso", j.WeightGrams); err != nil {
		return err
	}
	if err := checkNonNegative("horas", j.PrintHours); err != nil {
		return err
	}
	if err := checkNonNegative("minutos", j.PrintMinutes); err != nil {
		return err
	}
	if err := checkNonNegative("ganancia", j.ProfitPercent); err != nil {
		return err
	}
	if err := checkNonNegative("post_procesado", j.PostProcessingMinutes); err != nil {
		return err
	}
	return nil
}
