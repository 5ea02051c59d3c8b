package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a requested feature the attached component cannot serve.
	ErrConfiguration = errors.New("configuration error")
	// ErrLifecycle marks an illegal experiment state transition.
	ErrLifecycle = errors.New("lifecycle error")
	// ErrParameterType marks a parameter value that could not be cast for its setter.
	ErrParameterType = errors.New("parameter type error")
	// ErrUnsupported is returned by components that do not override a capability.
	ErrUnsupported = errors.New("not supported")
)

// ConfigurationError reports that Component cannot serve Feature.
type ConfigurationError struct {
	Component string
	Feature   string
	Err       error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("{%s} %s", e.Component, e.Feature)
	if e.Component == "" {
		msg = e.Feature
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// LifecycleError reports a train/test call that the current state forbids.
type LifecycleError struct {
	Op    string
	State string
	Msg   string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s: %s (state %s)", e.Op, e.Msg, e.State)
}

func (e *LifecycleError) Is(target error) bool { return target == ErrLifecycle }

// ParameterTypeError reports a value under Name that is not convertible to Expected.
// Err holds the underlying cast failure.
type ParameterTypeError struct {
	Name     string
	Value    any
	Expected string
	Err      error
}

func (e *ParameterTypeError) Error() string {
	return fmt.Sprintf("cannot cast {%v} to {%s} for parameter {%s}: %v", e.Value, e.Expected, e.Name, e.Err)
}

func (e *ParameterTypeError) Unwrap() error { return e.Err }

func (e *ParameterTypeError) Is(target error) bool { return target == ErrParameterType }

// NewConfigurationError is shorthand for a ConfigurationError without a cause.
func NewConfigurationError(component, feature string) error {
	return &ConfigurationError{Component: component, Feature: feature}
}
