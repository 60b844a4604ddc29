package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrEmptyCatalog = errors.New("model catalog is empty")

type UnknownModelError struct {
	ModelID ModelID
	Source  string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q (from %s)", e.ModelID, e.Source)
}

func NewUnknownModelError(id ModelID, source string) *UnknownModelError {
	return &UnknownModelError{ModelID: id, Source: source}
}

type ValidatorError struct {
	Err        error
	Validator  string
	StatusCode int
	Latency    time.Duration
}

func (e *ValidatorError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("safety validator %s failed: HTTP %d after %v: %v", e.Validator, e.StatusCode, e.Latency, e.Err)
	}
	return fmt.Sprintf("safety validator %s failed after %v: %v", e.Validator, e.Latency, e.Err)
}

func (e *ValidatorError) Unwrap() error {
	return e.Err
}

func NewValidatorError(validator string, statusCode int, latency time.Duration, err error) *ValidatorError {
	return &ValidatorError{
		Validator:  validator,
		StatusCode: statusCode,
		Latency:    latency,
		Err:        err,
	}
}

type VerdictParseError struct {
	Err     error
	Payload string
}

func (e *VerdictParseError) Error() string {
	return fmt.Sprintf("unable to parse validator verdict %q: %v", e.Payload, e.Err)
}

func (e *VerdictParseError) Unwrap() error {
	return e.Err
}

type ConfigValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s=%v: %s", e.Field, e.Value, e.Reason)
}
