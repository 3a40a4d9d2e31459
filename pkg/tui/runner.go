// Package tui walks the briefing form in a terminal. Prompts go through a
// PromptDriver so the flow runs against survey in production and against a
// scripted driver in tests.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/intake"
	"github.com/goliatone/go-briefing/pkg/mask"
)

// SkipLabel is the first entry of every single-choice prompt and leaves the
// field unanswered.
const SkipLabel = "(não informar)"

const dateLayout = "2006-01-02"

// Runner prompts for every schema field and submits the session at the end.
type Runner struct {
	session *intake.Session
	schema  *form.Schema
	driver  PromptDriver
	logger  *zap.Logger
	confirm bool
}

// New constructs a runner over session. The survey driver writing to stdout
// with DefaultTheme is used unless WithPromptDriver is given.
func New(session *intake.Session, options ...Option) (*Runner, error) {
	if session == nil {
		return nil, errors.New("tui: session is required")
	}
	r := &Runner{
		session: session,
		logger:  zap.NewNop(),
		confirm: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.schema == nil {
		schema, err := form.DefaultSchema()
		if err != nil {
			return nil, err
		}
		r.schema = schema
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil, DefaultTheme)
	}
	return r, nil
}

// Run asks every question in schema order and submits. It returns the deep
// link handed to the session opener.
func (r *Runner) Run(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("tui: context is required")
	}
	if err := r.notify(ctx, NoticeTitle, r.schema.Title); err != nil {
		return "", err
	}
	if err := r.notify(ctx, NoticeTitle, r.schema.Intro); err != nil {
		return "", err
	}

	for _, section := range r.schema.Sections {
		if err := r.notify(ctx, NoticeSection, section.Title); err != nil {
			return "", err
		}
		for _, field := range section.Fields {
			if field.CompanionOf != "" {
				continue
			}
			if err := r.promptField(ctx, field); err != nil {
				return "", err
			}
		}
	}

	if r.confirm {
		ok, err := r.driver.Confirm(ctx, "Enviar o briefing pelo WhatsApp?", true)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrDeclined
		}
	}

	link, err := r.session.Submit(ctx)
	_ = r.notify(ctx, NoticeStatus, r.session.State().Status)
	return link, err
}

func (r *Runner) notify(ctx context.Context, kind NoticeKind, text string) error {
	if text == "" {
		return nil
	}
	return r.driver.Notify(ctx, Notice{Kind: kind, Text: text})
}

func (r *Runner) promptField(ctx context.Context, field form.Field) error {
	switch field.Type {
	case form.FieldTypeRadio:
		return r.promptRadio(ctx, field)
	case form.FieldTypeCheckbox:
		return r.promptCheckbox(ctx, field)
	default:
		return r.promptText(ctx, field)
	}
}

func (r *Runner) promptText(ctx context.Context, field form.Field) error {
	value, err := r.driver.Text(ctx, TextPrompt{
		Label:     field.Label,
		Default:   r.session.State().Value(field.Key),
		Help:      textHelp(field),
		Multiline: field.Type == form.FieldTypeTextArea,
		Validate:  validatorFor(field),
	})
	if err != nil {
		return err
	}
	r.session.Input(field.Key, value)

	if field.Key != form.EmpresaCNPJ {
		return nil
	}
	state, err := r.session.Blur(ctx, field.Key)
	if err != nil {
		r.logger.Debug("tax id lookup failed", zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return err
		}
		return r.notify(ctx, NoticeError, state.LookupError)
	}
	return r.notify(ctx, NoticeStatus, state.Status)
}

func (r *Runner) promptRadio(ctx context.Context, field form.Field) error {
	current := r.session.State().Value(field.Key)
	labels := []string{SkipLabel}
	values := map[string]string{SkipLabel: ""}
	selected := []string{SkipLabel}
	for _, option := range field.Options {
		labels = append(labels, option.Label)
		values[option.Label] = option.Value
		if option.Value == current {
			selected = []string{option.Label}
		}
	}

	picked, err := r.driver.Choose(ctx, ChoicePrompt{
		Label:    field.Label,
		Options:  labels,
		Selected: selected,
		Help:     field.Hint,
	})
	if err != nil {
		return err
	}
	value := ""
	if len(picked) > 0 {
		value = values[picked[0]]
	}
	r.session.Choose(field.Key, value)

	if value == form.OptionOther {
		return r.promptCompanion(ctx, field)
	}
	return nil
}

func (r *Runner) promptCheckbox(ctx context.Context, field form.Field) error {
	state := r.session.State()
	labels := make([]string, 0, len(field.Options))
	var selected []string
	for _, option := range field.Options {
		labels = append(labels, option.Label)
		if state.IsSelected(field.Key, option.Value) {
			selected = append(selected, option.Label)
		}
	}

	picked, err := r.driver.Choose(ctx, ChoicePrompt{
		Label:    field.Label,
		Options:  labels,
		Selected: selected,
		Help:     field.Hint,
		Multiple: true,
	})
	if err != nil {
		return err
	}

	// Toggle rather than replace so earlier picks keep their position.
	chosen := make(map[string]struct{}, len(picked))
	for _, label := range picked {
		chosen[label] = struct{}{}
	}
	for _, option := range field.Options {
		_, checked := chosen[option.Label]
		if checked != state.IsSelected(field.Key, option.Value) {
			r.session.Toggle(field.Key, option.Value, checked)
		}
	}

	if r.session.State().IsSelected(field.Key, form.OptionOther) {
		return r.promptCompanion(ctx, field)
	}
	return nil
}

func (r *Runner) promptCompanion(ctx context.Context, field form.Field) error {
	if field.Companion == "" {
		return nil
	}
	companion, ok := r.schema.Field(field.Companion)
	if !ok {
		return fmt.Errorf("tui: companion %q of %q not in schema", field.Companion, field.Key)
	}
	return r.promptText(ctx, companion)
}

func textHelp(field form.Field) string {
	if field.Hint != "" {
		return field.Hint
	}
	switch {
	case field.Mask != mask.KindNone:
		return fmt.Sprintf("Até %d dígitos, a máscara é aplicada automaticamente.", mask.MaxDigits(field.Mask))
	case field.Type == form.FieldTypeDate:
		return "Formato AAAA-MM-DD."
	}
	return field.Placeholder
}

func validatorFor(field form.Field) func(string) error {
	switch field.Type {
	case form.FieldTypeNumber:
		return func(value string) error {
			if value != "" && mask.Digits(value) != value {
				return errors.New("informe apenas números")
			}
			return nil
		}
	case form.FieldTypeDate:
		return func(value string) error {
			if value == "" {
				return nil
			}
			if _, err := time.Parse(dateLayout, value); err != nil {
				return errors.New("use o formato AAAA-MM-DD")
			}
			return nil
		}
	}
	return nil
}
