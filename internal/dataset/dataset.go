// Package dataset holds labeled numeric-sequence datasets handed to classifiers and
// distance measures. A Dataset owns its instances; Copy gives callers a private deep
// copy so one base dataset can be shared by independent experiments.
package dataset

import (
	"fmt"
	"math"
)

// Missing is the class value of an instance whose label has been stripped.
var Missing = math.NaN()

// Instance is one labeled case: a numeric sequence plus a class index into the
// dataset's ClassNames. The label is never part of Values.
type Instance struct {
	Values []float64 `json:"values"`
	Class  float64   `json:"class"`
}

// Copy returns a deep copy of the instance.
func (in Instance) Copy() Instance {
	return Instance{Values: append([]float64(nil), in.Values...), Class: in.Class}
}

// ClassMissing reports whether the label has been stripped.
func (in Instance) ClassMissing() bool {
	return math.IsNaN(in.Class)
}

// Series returns a copy of the numeric feature sequence, excluding the label.
func Series(in Instance) []float64 {
	return append([]float64(nil), in.Values...)
}

// Dataset is a named collection of instances sharing a class vocabulary.
type Dataset struct {
	Name       string     `json:"name"`
	ClassNames []string   `json:"class_names"`
	Instances  []Instance `json:"instances"`
}

// New creates an empty dataset with the given class vocabulary.
func New(name string, classNames ...string) *Dataset {
	return &Dataset{
		Name:       name,
		ClassNames: append([]string(nil), classNames...),
		Instances:  make([]Instance, 0),
	}
}

// Add appends an instance after checking its class index.
func (d *Dataset) Add(values []float64, class int) error {
	if class < 0 || class >= len(d.ClassNames) {
		return fmt.Errorf("class index %d out of range [0,%d)", class, len(d.ClassNames))
	}
	d.Instances = append(d.Instances, Instance{Values: values, Class: float64(class)})
	return nil
}

// Len returns the number of instances.
func (d *Dataset) Len() int {
	return len(d.Instances)
}

// NumClasses returns the size of the class vocabulary.
func (d *Dataset) NumClasses() int {
	return len(d.ClassNames)
}

// Copy returns a deep copy; mutating the copy never affects d.
func (d *Dataset) Copy() *Dataset {
	out := &Dataset{
		Name:       d.Name,
		ClassNames: append([]string(nil), d.ClassNames...),
		Instances:  make([]Instance, len(d.Instances)),
	}
	for i, in := range d.Instances {
		out.Instances[i] = in.Copy()
	}
	return out
}

// SetClassMissing blanks every label so a classifier cannot read ground truth.
func (d *Dataset) SetClassMissing() {
	for i := range d.Instances {
		d.Instances[i].Class = Missing
	}
}

// ClassCounts returns the number of instances per class; stripped labels are skipped.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, d.NumClasses())
	for _, in := range d.Instances {
		if in.ClassMissing() {
			continue
		}
		if c := int(in.Class); c >= 0 && c < len(counts) {
			counts[c]++
		}
	}
	return counts
}
