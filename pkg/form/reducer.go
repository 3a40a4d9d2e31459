package form

import (
	"strings"

	"github.com/goliatone/go-briefing/pkg/mask"
)

// Event describes a single state transition. Events are applied by Reduce.
type Event interface {
	apply(*State)
}

// Reduce applies events in order to a copy of prev and returns the next state.
// prev is never modified.
func Reduce(prev State, events ...Event) State {
	next := prev.clone()
	for _, event := range events {
		if event == nil {
			continue
		}
		event.apply(&next)
	}
	return next
}

// SetValue stores a scalar value. Masked keys run the value through their
// mask rule first. Multi-select and unknown keys are ignored.
type SetValue struct {
	Key   Key
	Value string
}

func (e SetValue) apply(s *State) {
	if !Known(e.Key) || IsMulti(e.Key) {
		return
	}
	s.values[e.Key] = mask.Apply(MaskFor(e.Key), e.Value)
}

// ToggleOption checks or unchecks an option on a multi-select key. Checking
// appends to the selection; checking an already selected option is a no-op.
type ToggleOption struct {
	Key     Key
	Option  string
	Checked bool
}

func (e ToggleOption) apply(s *State) {
	if !IsMulti(e.Key) || e.Option == "" {
		return
	}
	current := s.choices[e.Key]
	idx := -1
	for i, option := range current {
		if option == e.Option {
			idx = i
			break
		}
	}
	switch {
	case e.Checked && idx < 0:
		s.choices[e.Key] = append(current, e.Option)
	case !e.Checked && idx >= 0:
		out := make([]string, 0, len(current)-1)
		out = append(out, current[:idx]...)
		out = append(out, current[idx+1:]...)
		s.choices[e.Key] = out
	}
}

// SetOptions replaces the selection of a multi-select key, keeping the first
// occurrence of each option in the given order.
type SetOptions struct {
	Key     Key
	Options []string
}

func (e SetOptions) apply(s *State) {
	if !IsMulti(e.Key) {
		return
	}
	out := make([]string, 0, len(e.Options))
	seen := make(map[string]struct{}, len(e.Options))
	for _, option := range e.Options {
		if option == "" {
			continue
		}
		if _, dup := seen[option]; dup {
			continue
		}
		seen[option] = struct{}{}
		out = append(out, option)
	}
	s.choices[e.Key] = out
}

// SetStatus replaces the form status line.
type SetStatus struct {
	Message string
}

func (e SetStatus) apply(s *State) {
	s.Status = e.Message
}

// SetLookupError replaces the inline tax-id error message.
type SetLookupError struct {
	Message string
}

func (e SetLookupError) apply(s *State) {
	s.LookupError = e.Message
}

// ApplyAutofill merges externally sourced values with the fill-if-empty
// policy: a field is written only when its current value is blank and the
// incoming value is not.
type ApplyAutofill struct {
	Values map[Key]string
}

func (e ApplyAutofill) apply(s *State) {
	for key, value := range e.Values {
		if !Known(key) || IsMulti(key) {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		if strings.TrimSpace(s.values[key]) != "" {
			continue
		}
		s.values[key] = value
	}
}

// FillIfEmpty is shorthand for Reduce(prev, ApplyAutofill{Values: values}).
func FillIfEmpty(prev State, values map[Key]string) State {
	return Reduce(prev, ApplyAutofill{Values: values})
}
