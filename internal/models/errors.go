package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInsufficientData  = errors.New("insufficient data")
	ErrModelFit          = errors.New("model fit failed")
	ErrPersistence       = errors.New("persistence failure")
	ErrNoViableCandidate = errors.New("no viable candidate in search space")
	ErrInvalidSeries     = errors.New("invalid series")
	ErrNotFound          = errors.New("record not found")
)

// InsufficientDataError reports a series shorter than an operation requires.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d observations, need at least %d", e.Have, e.Need)
}

// Is matches ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ModelFitError is returned when the fitting capability fails for an order.
// Step is the walk-forward step index, or -1 for a single fit.
type ModelFitError struct {
	Order Order
	Step  int
	Err   error
}

func (e *ModelFitError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("fit ARIMA%s: %v", e.Order, e.Err)
	}
	return fmt.Sprintf("fit ARIMA%s at step %d: %v", e.Order, e.Step, e.Err)
}

// Is matches ErrModelFit.
func (e *ModelFitError) Is(target error) bool {
	return target == ErrModelFit
}

func (e *ModelFitError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps artifact read and write failures.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
