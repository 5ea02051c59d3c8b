// Package distance defines the contract for pairwise distances between numeric
// series and ships two reference measures.
//
// A Measurer only ever sees its operands in canonical order, longer first, so an
// implementation written for that case is symmetric for free. Measure applies the
// ordering and exposes the convenience entry points.
package distance

import (
	"fmt"
	"math"
	"sort"

	"tsexp/internal/dataset"
	"tsexp/internal/params"
)

// Measurer is the algorithm behind a Measure. Implementations may assume
// len(longer) >= len(shorter) and may return any value above cutoff (typically
// +Inf) once the true distance is known to exceed it.
type Measurer interface {
	Measure(longer, shorter []float64, cutoff float64) float64
}

// Observer is notified after every computation. abandoned reports a result above
// the cutoff.
type Observer interface {
	DistanceObserve(abandoned bool)
}

// Measure is a named distance with canonical operand ordering.
type Measure struct {
	name     string
	impl     Measurer
	observer Observer
}

func New(name string, impl Measurer) *Measure {
	return &Measure{name: name, impl: impl}
}

func (m *Measure) Name() string { return m.name }

// Measurer returns the underlying algorithm.
func (m *Measure) Measurer() Measurer { return m.impl }

// SetObserver attaches an observer; nil detaches.
func (m *Measure) SetObserver(o Observer) { m.observer = o }

// Distance computes the unbounded distance between a and b.
func (m *Measure) Distance(a, b []float64) float64 {
	return m.DistanceWithin(a, b, math.Inf(1))
}

// DistanceWithin computes the distance between a and b, allowing the measure to stop
// early once the result is known to exceed cutoff. A NaN cutoff means no cutoff.
func (m *Measure) DistanceWithin(a, b []float64, cutoff float64) float64 {
	if math.IsNaN(cutoff) {
		cutoff = math.Inf(1)
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	d := m.impl.Measure(a, b, cutoff)
	if m.observer != nil {
		m.observer.DistanceObserve(d > cutoff)
	}
	return d
}

// Between computes the distance between two instances. The class label is not
// part of the series.
func (m *Measure) Between(x, y dataset.Instance, cutoff float64) float64 {
	return m.DistanceWithin(dataset.Series(x), dataset.Series(y), cutoff)
}

// Params exposes the underlying measure's parameters, or an empty set.
func (m *Measure) Params() *params.Set {
	if h, ok := m.impl.(params.Handler); ok {
		return h.Params()
	}
	return params.New()
}

// SetParams forwards to the underlying measure.
func (m *Measure) SetParams(set *params.Set) error {
	return params.SetParams(m.impl, set)
}

func (m *Measure) String() string {
	if p := m.Params(); !p.IsEmpty() {
		return m.name + " " + p.String()
	}
	return m.name
}

var registry = map[string]func() Measurer{
	"euclidean": func() Measurer { return &Euclidean{} },
	"dtw":       func() Measurer { return NewDTW() },
}

// ByName returns a fresh measure for one of the registered names.
func ByName(name string) (*Measure, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown distance measure %q (available: %v)", name, Names())
	}
	return New(name, factory()), nil
}

// Names lists the registered measures in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
