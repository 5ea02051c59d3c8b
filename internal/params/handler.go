package params

import (
	"fmt"

	"tsexp/internal/common"
)

// Handler is implemented by components that understand structured parameters.
type Handler interface {
	// Params returns the component's current parameters.
	Params() *Set
	// SetParams applies parameters, leaving absent names at their current value.
	SetParams(params *Set) error
}

// OptionHandler is implemented by components that only understand flattened option tokens.
type OptionHandler interface {
	Options() []string
	SetOptions(options []string) error
}

// Unsupported can be embedded by components that have no parameters. Params reports
// an empty Set and SetParams fails with common.ErrUnsupported.
type Unsupported struct{}

func (Unsupported) Params() *Set { return New() }

func (Unsupported) SetParams(*Set) error {
	return fmt.Errorf("param setting %w: override SetParams and Params", common.ErrUnsupported)
}

// Options derives the flattened option tokens of h from its Params.
func Options(h Handler) []string {
	return h.Params().Tokens()
}

// SetOptions parses tokens and hands the resulting Set to h.
func SetOptions(h Handler, tokens []string) error {
	set, err := Parse(tokens)
	if err != nil {
		return fmt.Errorf("parse options: %w", err)
	}
	return h.SetParams(set)
}

type handlerOptions struct {
	Handler
}

func (o handlerOptions) Options() []string { return Options(o.Handler) }

func (o handlerOptions) SetOptions(tokens []string) error { return SetOptions(o.Handler, tokens) }

// AsOptionHandler exposes h through the flattened OptionHandler surface.
func AsOptionHandler(h Handler) OptionHandler {
	return handlerOptions{h}
}

// SetParam looks up name in set and, for every value registered under it, converts the
// value to T and calls setter. An absent name is not an error. Several values drive
// several setter calls in order. A value that cannot be converted stops propagation
// with a *common.ParameterTypeError wrapping the conversion failure.
func SetParam[T any](set *Set, name string, setter func(T)) error {
	values, ok := set.Get(name)
	if !ok {
		return nil
	}
	for _, v := range values {
		cast, err := Cast[T](v)
		if err != nil {
			return &common.ParameterTypeError{Name: name, Value: v, Expected: typeName[T](), Err: err}
		}
		setter(cast)
	}
	return nil
}

// SetParams pushes set into target. Handlers receive the Set directly, OptionHandlers
// receive set.Tokens(). Any other target, and any failure of the call itself, is
// reported as a *common.ConfigurationError.
func SetParams(target any, set *Set) error {
	component := fmt.Sprintf("%T", target)
	var err error
	switch t := target.(type) {
	case Handler:
		err = t.SetParams(set)
	case OptionHandler:
		err = t.SetOptions(set.Tokens())
	default:
		return common.NewConfigurationError(component, "params not settable")
	}
	if err != nil {
		return &common.ConfigurationError{Component: component, Feature: "cannot set params", Err: err}
	}
	return nil
}
