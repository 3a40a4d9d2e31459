package form

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadAnswers builds a state from a YAML (or JSON) document mapping field
// keys to answers. Checkbox groups take a list or a single string; every
// other field takes a scalar. Values go through the reducer so masks apply.
func LoadAnswers(data []byte) (State, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("form: parse answers: %w", err)
	}
	return AnswersState(raw)
}

// AnswersState converts decoded answers into a state. Unknown keys are
// reported together, sorted.
func AnswersState(raw map[string]any) (State, error) {
	var unknown []string
	events := make([]Event, 0, len(raw))
	for _, key := range Keys() {
		value, ok := raw[string(key)]
		if !ok || value == nil {
			continue
		}
		if IsMulti(key) {
			options, err := stringList(value)
			if err != nil {
				return State{}, fmt.Errorf("form: answer %q: %w", key, err)
			}
			events = append(events, SetOptions{Key: key, Options: options})
			continue
		}
		text, err := scalar(value)
		if err != nil {
			return State{}, fmt.Errorf("form: answer %q: %w", key, err)
		}
		events = append(events, SetValue{Key: key, Value: text})
	}
	for key := range raw {
		if !Known(Key(key)) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return State{}, fmt.Errorf("form: unknown answer keys: %s", strings.Join(unknown, ", "))
	}
	return Reduce(New(), events...), nil
}

func scalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %T", value)
	}
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			text, err := scalar(item)
			if err != nil {
				return nil, err
			}
			out = append(out, text)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
}
