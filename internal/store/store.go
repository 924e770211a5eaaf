// Package store persists the cost model. Two backends exist: a JSON file
// compatible with the config.json written by earlier versions of the tool, and
// a SQLite database.
package store

import (
	"errors"
	"fmt"

	"github.com/Simplici0/fabricalc/internal/costmodel"
)

var (
	// ErrNotFound means nothing has been persisted yet.
	ErrNotFound = errors.New("cost model not found")
	// ErrParse marks persisted content that is unreadable or has the wrong shape.
	ErrParse = errors.New("cost model unreadable")
	// ErrIO marks a failed write.
	ErrIO = errors.New("cost model write failed")
)

// Backend loads and saves a complete cost model.
type Backend interface {
	Load() (costmodel.CostModel, error)
	Save(model costmodel.CostModel) error
	// Location describes where the model lives, for messages and logs.
	Location() string
}

// ParseError reports persisted content that could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IOError reports a failed write. Nothing is retried.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
