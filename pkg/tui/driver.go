package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// TextPrompt asks for free text. Multiline switches to an editor-style prompt
// for the long answers of the briefing.
type TextPrompt struct {
	Label     string
	Default   string
	Help      string
	Multiline bool
	Validate  func(string) error
}

// ChoicePrompt asks to pick among option labels. Selected holds the labels
// picked so far; answers come back as labels too.
type ChoicePrompt struct {
	Label    string
	Options  []string
	Selected []string
	Help     string
	Multiple bool
}

// NoticeKind tells a driver how to present a line of output.
type NoticeKind int

const (
	NoticeTitle NoticeKind = iota
	NoticeSection
	NoticeStatus
	NoticeError
)

// Notice is a line printed between prompts.
type Notice struct {
	Kind NoticeKind
	Text string
}

// PromptDriver abstracts the terminal so the prompt flow can be tested
// without a real TTY.
type PromptDriver interface {
	Text(ctx context.Context, p TextPrompt) (string, error)
	Choose(ctx context.Context, p ChoicePrompt) ([]string, error)
	Confirm(ctx context.Context, label string, def bool) (bool, error)
	Notify(ctx context.Context, n Notice) error
}

type surveyDriver struct {
	out   io.Writer
	theme Theme
}

// NewSurveyDriver returns the survey backed driver. Notices go to out, or
// stdout when out is nil, prefixed according to theme.
func NewSurveyDriver(out io.Writer, theme Theme) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out, theme: theme}
}

func (d *surveyDriver) Text(ctx context.Context, p TextPrompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var prompt survey.Prompt = &survey.Input{Message: p.Label, Help: p.Help, Default: p.Default}
	if p.Multiline {
		prompt = &survey.Multiline{Message: p.Label, Help: p.Help, Default: p.Default}
	}

	var opts []survey.AskOpt
	if p.Validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return p.Validate(s)
		}))
	}
	var out string
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Choose(ctx context.Context, p ChoicePrompt) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Multiple {
		prompt := &survey.MultiSelect{Message: p.Label, Options: p.Options, Help: p.Help}
		if len(p.Selected) > 0 {
			prompt.Default = p.Selected
		}
		var out []string
		if err := survey.AskOne(prompt, &out); err != nil {
			return nil, translateSurveyErr(err)
		}
		return out, nil
	}

	prompt := &survey.Select{Message: p.Label, Options: p.Options, Help: p.Help}
	if len(p.Selected) > 0 {
		prompt.Default = p.Selected[0]
	}
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return []string{out}, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, label string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	out := def
	if err := survey.AskOne(&survey.Confirm{Message: label, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Notify(ctx context.Context, n Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, d.theme.prefix(n.Kind)+n.Text)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
