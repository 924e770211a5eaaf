// Package configstore owns the current cost model: it loads it from a
// persistence backend, keeps an in-memory snapshot and applies every edit to
// both, or to neither when something fails.
package configstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Simplici0/fabricalc/internal/costmodel"
	"github.com/Simplici0/fabricalc/internal/logging"
	"github.com/Simplici0/fabricalc/internal/store"
)

// Service is the ConfigStore. It is safe for use by concurrent HTTP handlers;
// writes are serialized and readers always receive a copy.
type Service struct {
	mu      sync.Mutex
	backend store.Backend
	current costmodel.CostModel
	log     *logging.Logger
}

// New creates a service over backend. Call Load before use; until then the
// snapshot holds the defaults.
func New(backend store.Backend, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{backend: backend, current: costmodel.Defaults(), log: logger}
}

// Location describes where the model is persisted.
func (s *Service) Location() string { return s.backend.Location() }

// Load reads the persisted model. A missing or unreadable store is replaced by
// the defaults, which are persisted immediately. When the store was unreadable
// the returned error is a *store.ParseError and the returned model is the
// usable defaults; callers should show it as a warning and carry on. Any other
// error means nothing was loaded.
func (s *Service) Load() (costmodel.CostModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, err := s.backend.Load()
	switch {
	case err == nil:
		if len(model.Materials) == 0 {
			s.log.Warn("persisted cost model has no materials, restoring defaults", logging.Fields{"location": s.backend.Location()})
			model.Materials = costmodel.DefaultMaterials()
			if err := s.backend.Save(model); err != nil {
				return costmodel.CostModel{}, err
			}
		}
		if vErr := model.Validate(); vErr != nil {
			// Kept as loaded so the user can correct it; quotes fail until then.
			s.log.Warn("persisted cost model has invalid values", logging.Fields{"location": s.backend.Location(), "error": vErr.Error()})
		}
		s.current = model.Clone()
		s.log.Debug("cost model loaded", logging.Fields{"location": s.backend.Location(), "materials": len(model.Materials)})
		return model, nil

	case errors.Is(err, store.ErrNotFound):
		s.log.Info("no cost model found, installing defaults", logging.Fields{"location": s.backend.Location()})
		return s.installDefaults(nil)

	case errors.Is(err, store.ErrParse):
		s.log.Warn("cost model unreadable, installing defaults", logging.Fields{"location": s.backend.Location(), "error": err.Error()})
		return s.installDefaults(err)
	}

	return costmodel.CostModel{}, fmt.Errorf("load cost model: %w", err)
}

func (s *Service) installDefaults(cause error) (costmodel.CostModel, error) {
	defaults := costmodel.Defaults()
	if err := s.backend.Save(defaults); err != nil {
		return costmodel.CostModel{}, err
	}
	s.current = defaults.Clone()
	return defaults, cause
}

// Current returns a copy of the in-memory model.
func (s *Service) Current() costmodel.CostModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Save validates and persists model, then makes it current. An empty material
// table is replaced by the default materials. On error neither the snapshot
// nor the persisted copy changes.
func (s *Service) Save(model costmodel.CostModel) (costmodel.CostModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(model)
}

func (s *Service) saveLocked(model costmodel.CostModel) (costmodel.CostModel, error) {
	next := model.Clone()
	if len(next.Materials) == 0 {
		next.Materials = costmodel.DefaultMaterials()
	}
	if err := next.Validate(); err != nil {
		return costmodel.CostModel{}, err
	}
	if err := s.backend.Save(next); err != nil {
		s.log.Error("save cost model", err, logging.Fields{"location": s.backend.Location()})
		return costmodel.CostModel{}, err
	}
	s.current = next.Clone()
	s.log.Info("cost model saved", logging.Fields{"location": s.backend.Location(), "materials": len(next.Materials)})
	return next, nil
}

// AddMaterial inserts or overwrites a material price and persists the result.
// The name must not be blank and rawPrice must parse as a finite number
// greater than zero.
func (s *Service) AddMaterial(name, rawPrice string) (costmodel.CostModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return costmodel.CostModel{}, &costmodel.ValidationError{Field: "nuevo_material", Reason: "es requerido"}
	}
	price, err := costmodel.ParsePositive("precio", rawPrice)
	if err != nil {
		return costmodel.CostModel{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.current.WithMaterial(name, price))
}

// ResetToDefaults discards the current model and persists the defaults. The
// caller is responsible for having asked the user first.
func (s *Service) ResetToDefaults() (costmodel.CostModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults, err := s.saveLocked(costmodel.Defaults())
	if err != nil {
		return costmodel.CostModel{}, err
	}
	s.log.Info("cost model reset to defaults", logging.Fields{"location": s.backend.Location()})
	return defaults, nil
}
