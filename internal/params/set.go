// Package params provides the nested parameter model used to configure classifiers
// and distance measures, together with the propagation helpers that push a Set into
// components implementing either the structured Handler capability or the flattened
// OptionHandler capability.
//
// A Set maps parameter names to an ordered list of values. A value is a primitive
// (string, bool, integer, float, time.Duration) or another *Set describing the
// configuration of a sub-component. Names keep their first-insertion order so that
// serialization is deterministic.
package params

import (
	"fmt"
	"strconv"
	"time"
)

type entry struct {
	name   string
	values []any
}

// Set is an ordered, nested parameter container. The zero value is not usable; use New.
type Set struct {
	entries []*entry
	index   map[string]int
}

// New returns an empty Set.
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// Get returns every value registered under name. The boolean is false when the name
// was never registered, which is distinct from a name registered with no values.
func (s *Set) Get(name string) ([]any, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].values, true
}

// Put replaces the values under name. A new name is appended after the existing ones,
// an existing name keeps its position. Put panics if name is not a valid parameter name.
func (s *Set) Put(name string, values ...any) *Set {
	e := s.ensure(name)
	e.values = append([]any{}, values...)
	return s
}

// Add appends values to those already registered under name.
func (s *Set) Add(name string, values ...any) *Set {
	e := s.ensure(name)
	e.values = append(e.values, values...)
	return s
}

func (s *Set) ensure(name string) *entry {
	if !ValidName(name) {
		panic(fmt.Sprintf("params: invalid parameter name %q", name))
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		return s.entries[i]
	}
	e := &entry{name: name, values: []any{}}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, e)
	return e
}

// Names returns the registered names in insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered names.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IsEmpty reports whether no names are registered.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Clone returns a deep copy; nested sets are cloned too.
func (s *Set) Clone() *Set {
	out := New()
	if s == nil {
		return out
	}
	for _, e := range s.entries {
		values := make([]any, len(e.values))
		for i, v := range e.values {
			if sub, ok := v.(*Set); ok {
				values[i] = sub.Clone()
			} else {
				values[i] = v
			}
		}
		out.Put(e.name, values...)
	}
	return out
}

// Equal reports whether both sets hold the same names mapped to the same values.
// Primitive values are compared by their textual form, so a Set parsed from tokens
// equals the typed Set it was written from.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, e := range s.entriesOrNil() {
		values, ok := other.Get(e.name)
		if !ok || len(values) != len(e.values) {
			return false
		}
		for i, v := range e.values {
			if !valueEqual(v, values[i]) {
				return false
			}
		}
	}
	return true
}

func (s *Set) entriesOrNil() []*entry {
	if s == nil {
		return nil
	}
	return s.entries
}

func valueEqual(a, b any) bool {
	sa, aSet := a.(*Set)
	sb, bSet := b.(*Set)
	if aSet || bSet {
		return aSet && bSet && sa.Equal(sb)
	}
	return formatValue(a) == formatValue(b)
}

// ValidName reports whether name can be used as a parameter name. Names start with a
// letter or underscore and continue with letters, digits, '_', '.' or '-'.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Duration:
		return x.String()
	case *Set:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
