package analytics

import (
	"errors"
	"fmt"
)

// ErrMissingData marks a dataset that lacks a field a module needs.
var ErrMissingData = errors.New("required field missing from dataset")

// ComputationError wraps a module-internal failure, including recovered
// panics from pathological input.
type ComputationError struct {
	Kind Kind
	Err  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Kind, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// ModuleError is the per-module failure surfaced by the comprehensive run.
// A failed module is omitted from the report; its error lands here.
type ModuleError struct {
	Kind Kind
	Err  error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Kind, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }
