package form

import (
	"slices"
	"strings"
)

// State is the briefing form state container. It is a value type: every
// mutation goes through Reduce and yields a new State, so snapshots handed to
// renderers or the composer never change underneath them.
type State struct {
	values  map[Key]string
	choices map[Key][]string

	// Status is the form-level status line.
	Status string
	// LookupError is the inline message shown next to the tax-id field.
	LookupError string
}

// New returns a State with every schema key present and empty.
func New() State {
	s := State{
		values:  make(map[Key]string, len(allKeys)),
		choices: make(map[Key][]string, len(multiKeys)),
	}
	for _, key := range allKeys {
		if IsMulti(key) {
			s.choices[key] = []string{}
			continue
		}
		s.values[key] = ""
	}
	return s
}

// Value returns the scalar value stored for key. Multi-select keys and unknown
// keys return the empty string.
func (s State) Value(key Key) string {
	return s.values[key]
}

// Selected returns a copy of the options selected for key, in selection order.
func (s State) Selected(key Key) []string {
	return append([]string(nil), s.choices[key]...)
}

// IsSelected reports whether option is currently selected for key.
func (s State) IsSelected(key Key, option string) bool {
	return slices.Contains(s.choices[key], option)
}

// Blank reports whether the scalar value for key is empty after trimming.
func (s State) Blank(key Key) bool {
	return strings.TrimSpace(s.values[key]) == ""
}

// Values flattens the state into a map keyed by field name. Scalars map to
// strings and multi-select fields to []string. The result is safe to mutate.
func (s State) Values() map[string]any {
	out := make(map[string]any, len(s.values)+len(s.choices))
	for key, value := range s.values {
		out[string(key)] = value
	}
	for key, selected := range s.choices {
		out[string(key)] = append([]string{}, selected...)
	}
	return out
}

func (s State) clone() State {
	next := State{
		values:      make(map[Key]string, len(s.values)),
		choices:     make(map[Key][]string, len(s.choices)),
		Status:      s.Status,
		LookupError: s.LookupError,
	}
	for key, value := range s.values {
		next.values[key] = value
	}
	for key, selected := range s.choices {
		next.choices[key] = append([]string{}, selected...)
	}
	return next
}
