package form

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-briefing/pkg/mask"
)

// FieldType controls which input widget renders a field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Option is a selectable value for radio and checkbox fields.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Field describes a single briefing input.
type Field struct {
	Key         Key       `yaml:"key" json:"key"`
	Label       string    `yaml:"label" json:"label"`
	Type        FieldType `yaml:"type" json:"type"`
	Placeholder string    `yaml:"placeholder" json:"placeholder,omitempty"`
	Hint        string    `yaml:"hint" json:"hint,omitempty"`
	Options     []Option  `yaml:"options" json:"options,omitempty"`
	// Companion names the free-text field unlocked by the OptionOther choice.
	Companion Key  `yaml:"companion" json:"companion,omitempty"`
	MaxLength int  `yaml:"maxLength" json:"maxLength,omitempty"`
	Rows      int  `yaml:"rows" json:"rows,omitempty"`
	Wide      bool `yaml:"wide" json:"wide,omitempty"`

	// Mask and CompanionOf are derived while loading.
	Mask        mask.Kind `yaml:"-" json:"mask,omitempty"`
	CompanionOf Key       `yaml:"-" json:"companionOf,omitempty"`
}

// OptionLabel returns the display label for value, falling back to value.
func (f Field) OptionLabel(value string) string {
	for _, option := range f.Options {
		if option.Value == value {
			if option.Label != "" {
				return option.Label
			}
			break
		}
	}
	return value
}

// Section groups fields under a numbered heading.
type Section struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Schema is the loaded briefing layout.
type Schema struct {
	Title    string    `yaml:"title" json:"title"`
	Intro    string    `yaml:"intro" json:"intro"`
	Sections []Section `yaml:"sections" json:"sections"`

	index map[Key]Field
}

// Field looks up a field definition by key.
func (s *Schema) Field(key Key) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	field, ok := s.index[key]
	return field, ok
}

// Fields returns every field in section order.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

//go:embed schema.yaml
var embeddedSchema []byte

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
	defaultErr    error
)

// DefaultSchema returns the embedded briefing schema. The result is shared;
// callers must not mutate it.
func DefaultSchema() (*Schema, error) {
	defaultOnce.Do(func() {
		defaultSchema, defaultErr = LoadSchema(embeddedSchema)
	})
	return defaultSchema, defaultErr
}

// MustDefaultSchema panics when the embedded schema fails to load.
func MustDefaultSchema() *Schema {
	schema, err := DefaultSchema()
	if err != nil {
		panic(err)
	}
	return schema
}

// LoadSchema parses a YAML (or JSON) schema document and checks it against the
// fixed key set: every key must be declared exactly once, checkbox fields must
// be multi-select keys, and option fields must list their options.
func LoadSchema(data []byte) (*Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("form: schema is empty")
	}

	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("form: parse schema: %w", err)
	}
	if err := normaliseSchema(&schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func normaliseSchema(schema *Schema) error {
	if len(schema.Sections) == 0 {
		return fmt.Errorf("form: schema declares no sections")
	}

	schema.index = make(map[Key]Field, len(allKeys))
	companions := make(map[Key]Key)

	for si := range schema.Sections {
		section := &schema.Sections[si]
		if strings.TrimSpace(section.Title) == "" {
			return fmt.Errorf("form: section %d: title is required", si)
		}
		for fi := range section.Fields {
			field := &section.Fields[fi]
			if !Known(field.Key) {
				return fmt.Errorf("form: section %q: unknown field %q", section.ID, field.Key)
			}
			if _, dup := schema.index[field.Key]; dup {
				return fmt.Errorf("form: field %q declared twice", field.Key)
			}
			if err := checkFieldType(*field); err != nil {
				return err
			}
			field.Mask = MaskFor(field.Key)
			if field.Companion != "" {
				companions[field.Companion] = field.Key
			}
			schema.index[field.Key] = *field
		}
	}

	for _, key := range allKeys {
		if _, ok := schema.index[key]; !ok {
			return fmt.Errorf("form: field %q missing from schema", key)
		}
	}

	for companion, parent := range companions {
		if _, ok := schema.index[companion]; !ok {
			return fmt.Errorf("form: field %q names undeclared companion %q", parent, companion)
		}
		for si := range schema.Sections {
			for fi := range schema.Sections[si].Fields {
				if schema.Sections[si].Fields[fi].Key == companion {
					schema.Sections[si].Fields[fi].CompanionOf = parent
					schema.index[companion] = schema.Sections[si].Fields[fi]
				}
			}
		}
	}

	return nil
}

func checkFieldType(field Field) error {
	switch field.Type {
	case FieldTypeText, FieldTypeTextArea, FieldTypeNumber, FieldTypeDate:
		if IsMulti(field.Key) {
			return fmt.Errorf("form: field %q must be a checkbox group", field.Key)
		}
	case FieldTypeRadio:
		if len(field.Options) == 0 {
			return fmt.Errorf("form: radio field %q has no options", field.Key)
		}
	case FieldTypeCheckbox:
		if !IsMulti(field.Key) {
			return fmt.Errorf("form: field %q cannot be a checkbox group", field.Key)
		}
		if len(field.Options) == 0 {
			return fmt.Errorf("form: checkbox field %q has no options", field.Key)
		}
	default:
		return fmt.Errorf("form: field %q has unsupported type %q", field.Key, field.Type)
	}
	return nil
}
