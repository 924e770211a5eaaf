package costmodel

import (
	"strconv"
	"strings"
)

// ParsePositive parses a user-entered number that must be finite and > 0.
func ParsePositive(field, raw string) (float64, error) {
	value, err := parseNumber(field, raw)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(field, value); err != nil {
		return 0, err
	}
	return value, nil
}

// ParseNonNegative parses a user-entered number that must be finite and >= 0.
func ParseNonNegative(field, raw string) (float64, error) {
	value, err := parseNumber(field, raw)
	if err != nil {
		return 0, err
	}
	if err := checkNonNegative(field, value); err != nil {
		return 0, err
	}
	return value, nil
}

func parseNumber(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "debe ser numérico"}
	}
	return value, nil
}
