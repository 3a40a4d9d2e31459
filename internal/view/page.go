package view

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-briefing/pkg/form"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// PageTemplate is the name of the briefing page template.
const PageTemplate = "briefing"

// Templates exposes the embedded template set.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("view: embedded templates: %v", err))
	}
	return sub
}

// Page is the data handed to the page template. Intro and field hints are
// sanitized HTML; everything else is plain text escaped by the template.
type Page struct {
	Title       string        `json:"title"`
	Intro       string        `json:"intro"`
	Action      string        `json:"action"`
	Status      string        `json:"status,omitempty"`
	LookupError string        `json:"lookupError,omitempty"`
	Sections    []SectionView `json:"sections"`
	Theme       ThemeView     `json:"theme"`
}

type SectionView struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Fields []FieldView `json:"fields"`
}

// FieldView carries a schema field with its current value. Companion fields
// are nested under their parent rather than listed on their own.
type FieldView struct {
	Key         string       `json:"key"`
	Label       string       `json:"label"`
	Type        string       `json:"type"`
	Value       string       `json:"value"`
	Placeholder string       `json:"placeholder,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	Error       string       `json:"error,omitempty"`
	Mask        string       `json:"mask,omitempty"`
	MaxLength   int          `json:"maxLength,omitempty"`
	Rows        int          `json:"rows,omitempty"`
	Wide        bool         `json:"wide,omitempty"`
	Options     []OptionView `json:"options,omitempty"`
	Companion   *FieldView   `json:"companion,omitempty"`
}

type OptionView struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type ThemeView struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style"`
}

// NewPage projects schema and state into the page model.
func NewPage(schema *form.Schema, state form.State, action string, cfg *theme.RendererConfig) Page {
	page := Page{
		Action:      action,
		Status:      state.Status,
		LookupError: state.LookupError,
	}
	if schema == nil {
		return page
	}
	page.Title = schema.Title
	page.Intro = sanitizeCopy(schema.Intro)

	if cfg != nil {
		page.Theme = ThemeView{Name: cfg.Theme, Variant: cfg.Variant, Style: CSSVarsStyle(cfg.CSSVars)}
	}

	for _, section := range schema.Sections {
		sv := SectionView{ID: section.ID, Title: section.Title}
		for _, field := range section.Fields {
			if field.CompanionOf != "" {
				continue
			}
			fv := fieldView(field, state)
			if field.Key == form.EmpresaCNPJ {
				fv.Error = state.LookupError
			}
			if field.Companion != "" {
				if companion, ok := schema.Field(field.Companion); ok {
					cv := fieldView(companion, state)
					fv.Companion = &cv
				}
			}
			sv.Fields = append(sv.Fields, fv)
		}
		page.Sections = append(page.Sections, sv)
	}
	return page
}

func fieldView(field form.Field, state form.State) FieldView {
	fv := FieldView{
		Key:         string(field.Key),
		Label:       field.Label,
		Type:        string(field.Type),
		Value:       state.Value(field.Key),
		Placeholder: field.Placeholder,
		Hint:        sanitizeCopy(field.Hint),
		Mask:        string(field.Mask),
		MaxLength:   field.MaxLength,
		Rows:        field.Rows,
		Wide:        field.Wide,
	}
	for _, option := range field.Options {
		checked := state.Value(field.Key) == option.Value
		if form.IsMulti(field.Key) {
			checked = state.IsSelected(field.Key, option.Value)
		}
		fv.Options = append(fv.Options, OptionView{
			Value:   option.Value,
			Label:   field.OptionLabel(option.Value),
			Checked: checked,
		})
	}
	return fv
}

// Renderer renders the briefing page.
type Renderer struct {
	engine *Engine
	schema *form.Schema
	theme  *theme.RendererConfig
}

// NewRenderer wires an engine over the embedded templates (plus an optional
// override directory) with the given theme. A nil cfg uses DefaultManifest.
func NewRenderer(schema *form.Schema, cfg *theme.RendererConfig, overrideDir string) (*Renderer, error) {
	if schema == nil {
		return nil, fmt.Errorf("view: schema is required")
	}
	if cfg == nil {
		resolved, err := ThemeConfig(DefaultManifest(), DefaultThemeVariant)
		if err != nil {
			return nil, err
		}
		cfg = resolved
	}

	engine, err := NewEngine(Templates(), overrideDir)
	if err != nil {
		return nil, err
	}
	return &Renderer{engine: engine, schema: schema, theme: cfg}, nil
}

// Render writes the page for state to w.
func (r *Renderer) Render(w io.Writer, state form.State, action string) error {
	page := NewPage(r.schema, state, action, r.theme)
	return r.engine.Render(w, PageTemplate, map[string]any{"page": page})
}
