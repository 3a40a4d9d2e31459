package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/pkg/form"
)

// Theme holds the prefixes the survey driver puts in front of notices.
type Theme struct {
	SectionPrefix string
	StatusPrefix  string
	ErrorPrefix   string
}

// DefaultTheme is the theme used by the briefing CLI.
var DefaultTheme = Theme{
	SectionPrefix: "## ",
	StatusPrefix:  "» ",
	ErrorPrefix:   "! ",
}

func (t Theme) prefix(kind NoticeKind) string {
	switch kind {
	case NoticeSection:
		return t.SectionPrefix
	case NoticeStatus:
		return t.StatusPrefix
	case NoticeError:
		return t.ErrorPrefix
	}
	return ""
}

// Option configures the terminal runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithSchema swaps the field layout walked by the runner.
func WithSchema(schema *form.Schema) Option {
	return func(r *Runner) {
		if schema != nil {
			r.schema = schema
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConfirm toggles the final "send?" question. It is on by default.
func WithConfirm(enabled bool) Option {
	return func(r *Runner) {
		r.confirm = enabled
	}
}
