package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/intake"
	"github.com/goliatone/go-briefing/pkg/mask"
	"github.com/goliatone/go-briefing/pkg/registry"
)

// Form actions posted by the page buttons.
const (
	ActionLookup = "lookup"
	ActionSubmit = "submit"
)

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type dataResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PageHandler serves the briefing page. GET renders an empty form. POST
// rebuilds the state from the posted fields, then either runs the registry
// lookup and re-renders, or composes the message and redirects to the deep
// link with 303 See Other.
func PageHandler(fns ...OptionFn) http.Handler {
	return pageHandler(NewOptions(fns...), "")
}

func pageHandler(opts Options, action string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead, http.MethodPost) || !guard(w, r, opts) {
			return
		}
		formAction := action
		if formAction == "" {
			formAction = r.URL.Path
		}

		if r.Method != http.MethodPost {
			renderPage(w, r, opts, form.New(), formAction)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		session := intake.NewSession(
			intake.WithState(StateFromForm(opts.Schema, r.PostForm)),
			intake.WithLooker(opts.Looker),
			intake.WithComposer(opts.Composer),
			intake.WithLogger(opts.Logger),
		)

		switch r.PostForm.Get("action") {
		case ActionLookup:
			if _, err := session.Lookup(r.Context()); err != nil {
				opts.Logger.Debug("page lookup failed", zap.Error(err))
			}
		case ActionSubmit:
			link, _ := session.Submit(r.Context())
			http.Redirect(w, r, link, http.StatusSeeOther)
			return
		}
		renderPage(w, r, opts, session.State(), formAction)
	})
}

func renderPage(w http.ResponseWriter, r *http.Request, opts Options, state form.State, action string) {
	if opts.Renderer == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := opts.Renderer.Render(&buf, state, action); err != nil {
		opts.Logger.Error("render page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(buf.String()))
}

// StateFromForm rebuilds a form state from posted values. Text is kept as
// typed (the page escapes it on output), masks are applied and checkbox values
// outside the schema options are dropped.
func StateFromForm(schema *form.Schema, values url.Values) form.State {
	events := make([]form.Event, 0, len(form.Keys()))
	for _, key := range form.Keys() {
		if form.IsMulti(key) {
			events = append(events, form.SetOptions{Key: key, Options: allowedOptions(schema, key, values[string(key)])})
			continue
		}
		events = append(events, form.SetValue{Key: key, Value: values.Get(string(key))})
	}
	return form.Reduce(form.New(), events...)
}

func allowedOptions(schema *form.Schema, key form.Key, posted []string) []string {
	field, ok := schema.Field(key)
	if !ok {
		return nil
	}
	allowed := make(map[string]struct{}, len(field.Options))
	for _, option := range field.Options {
		allowed[option.Value] = struct{}{}
	}
	out := make([]string, 0, len(posted))
	for _, value := range posted {
		if _, ok := allowed[value]; ok {
			out = append(out, value)
		}
	}
	return out
}

// LookupHandler answers GET {LookupPath}{cnpj} with the normalized registry
// record.
func LookupHandler(fns ...OptionFn) http.Handler {
	return lookupHandler(NewOptions(fns...), "")
}

func lookupHandler(opts Options, prefix string) http.Handler {
	if prefix == "" {
		prefix = opts.LookupPath
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) || !guard(w, r, opts) {
			return
		}
		raw := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}

		rec, err := opts.Looker.Lookup(r.Context(), raw)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			writeJSON(w, r, lookupStatus(err), errorResponse{Error: registry.Message(err)})
			return
		}
		writeJSON(w, r, http.StatusOK, dataResponse{Data: rec})
	})
}

// lookupStatus maps registry failures onto this API: a bad tax id is the
// caller's fault, an unknown one is 404 and anything else is a bad gateway.
func lookupStatus(err error) int {
	switch {
	case errors.Is(err, registry.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

type maskResult struct {
	Kind   mask.Kind `json:"kind"`
	Value  string    `json:"value"`
	Digits string    `json:"digits"`
}

// MaskHandler answers GET ?kind=taxid|postal|phone&value=... with the masked
// value.
func MaskHandler(fns ...OptionFn) http.Handler {
	return maskHandler(NewOptions(fns...))
}

func maskHandler(opts Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) || !guard(w, r, opts) {
			return
		}
		query := r.URL.Query()
		kind, err := mask.ParseKind(query.Get("kind"))
		if err != nil || kind == mask.KindNone {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "kind must be one of taxid, postal, phone"})
			return
		}
		masked := mask.Apply(kind, query.Get("value"))
		writeJSON(w, r, http.StatusOK, dataResponse{Data: maskResult{
			Kind:   kind,
			Value:  masked,
			Digits: mask.Digits(masked),
		}})
	})
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func guard(w http.ResponseWriter, r *http.Request, opts Options) bool {
	if opts.Guard == nil {
		return true
	}
	err := opts.Guard(r)
	if err == nil {
		return true
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if c := httpErr.StatusCode(); c > 0 {
			code = c
		}
	}
	http.Error(w, http.StatusText(code), code)
	return false
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
