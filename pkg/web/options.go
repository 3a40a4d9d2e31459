package web

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/internal/view"
	"github.com/goliatone/go-briefing/pkg/composer"
	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/registry"
)

// PageRenderer writes the HTML briefing page for a state. action is the URL
// the form posts back to.
type PageRenderer interface {
	Render(w io.Writer, state form.State, action string) error
}

// GuardFunc may reject a request before it reaches a handler. Returning an
// error that implements HTTPError picks the response status.
type GuardFunc func(r *http.Request) error

// HTTPError is an error carrying an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

type Options struct {
	PagePath    string
	LookupPath  string
	MaskPath    string
	OpenAPIPath string

	Schema   *form.Schema
	Renderer PageRenderer
	Looker   registry.Looker
	Composer *composer.Composer
	Logger   *zap.Logger
	Guard    GuardFunc
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		PagePath:    "/",
		LookupPath:  "/api/cnpj/",
		MaskPath:    "/api/mask",
		OpenAPIPath: "/openapi.json",
	}
}

// NewOptions applies fns over DefaultOptions and fills every unset
// collaborator with its default.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.PagePath == "" {
		opts.PagePath = "/"
	}
	if opts.LookupPath == "" {
		opts.LookupPath = "/api/cnpj/"
	}
	if opts.MaskPath == "" {
		opts.MaskPath = "/api/mask"
	}
	if opts.OpenAPIPath == "" {
		opts.OpenAPIPath = "/openapi.json"
	}
	if opts.Schema == nil {
		opts.Schema = form.MustDefaultSchema()
	}
	if opts.Renderer == nil {
		if renderer, err := view.NewRenderer(opts.Schema, nil, ""); err == nil {
			opts.Renderer = renderer
		}
	}
	if opts.Looker == nil {
		opts.Looker = registry.New()
	}
	if opts.Composer == nil {
		opts.Composer = composer.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithPagePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PagePath = path
	}
}

func WithLookupPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LookupPath = path
	}
}

func WithSchema(schema *form.Schema) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Schema = schema
	}
}

func WithRenderer(renderer PageRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithLooker(looker registry.Looker) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Looker = looker
	}
}

func WithComposer(c *composer.Composer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Composer = c
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}
