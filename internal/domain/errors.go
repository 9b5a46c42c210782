// Package domain contains the core entities for focus: the pomodoro timer
// state machine, the per-day session log and the statistics snapshot.
// These types are independent of any storage, UI or sensor framework.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors.
var (
	ErrValidation        = errors.New("validation failed")
	ErrPersistence       = errors.New("persistence failed")
	ErrSensorUnavailable = errors.New("sensor unavailable")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidDate       = errors.New("invalid date")
)

// ValidationError reports a field that failed a bounds or format check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes every PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
