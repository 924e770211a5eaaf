package costmodel

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks user input that is blank, non-numeric or out of domain.
	ErrValidation = errors.New("validation error")
	// ErrLookup marks a reference to a material missing from the cost model.
	ErrLookup = errors.New("material not found")
	// ErrDivisionByZero is returned when the printer lifetime is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// ValidationError reports the first invalid field found.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// LookupError reports a material name absent from the cost model.
type LookupError struct {
	Material string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("material %q no encontrado en la configuración", e.Material)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }
