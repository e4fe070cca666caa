// Package model provides state management for estimators and function spaces.
package model

import (
	"sync"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// StateManager manages the fitted state of an estimator in a thread-safe manner.
type StateManager struct {
	mu     sync.RWMutex
	fitted bool

	dimension int
	samples   int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the estimator has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the estimator as fitted and records the shape it was fitted on.
func (s *StateManager) SetFitted(dimension, samples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.dimension = dimension
	s.samples = samples
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.dimension = 0
	s.samples = 0
}

// GetDimensions returns the number of basis functions and samples seen during fitting.
func (s *StateManager) GetDimensions() (dimension, samples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension, s.samples
}

// RequireFitted returns a NotFittedError naming model and method if the
// estimator has not been fitted.
func (s *StateManager) RequireFitted(model, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(model, method)
	}
	return nil
}

// State is a snapshot of a StateManager, used for export.
type State struct {
	Fitted    bool `json:"fitted"`
	Dimension int  `json:"dimension,omitempty"`
	Samples   int  `json:"samples,omitempty"`
}

// GetState returns the current state as a State struct.
func (s *StateManager) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Fitted:    s.fitted,
		Dimension: s.dimension,
		Samples:   s.samples,
	}
}
