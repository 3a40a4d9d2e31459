// Package briefing is the entry point for embedding the hiring briefing
// intake form. It re-exports the common types and wires the default
// collaborators; the sub-packages stay available for finer control.
package briefing

import (
	"context"
	"net/http"

	"github.com/goliatone/go-briefing/pkg/composer"
	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/intake"
	"github.com/goliatone/go-briefing/pkg/mask"
	"github.com/goliatone/go-briefing/pkg/registry"
	"github.com/goliatone/go-briefing/pkg/web"
)

// State is the immutable form snapshot.
type State = form.State

// Record is a normalized company registry entry.
type Record = registry.Record

// Session drives a single briefing fill.
type Session = intake.Session

// NewSession starts an empty briefing backed by the public registry.
func NewSession(options ...intake.Option) *Session {
	return intake.NewSession(options...)
}

// NewHandler mounts the briefing page and its JSON endpoints under basePath
// on a fresh ServeMux.
func NewHandler(basePath string, options ...web.OptionFn) (http.Handler, error) {
	mux := http.NewServeMux()
	if _, err := web.RegisterRoutes(mux, basePath, options...); err != nil {
		return nil, err
	}
	return mux, nil
}

// Lookup queries the public registry once with default client settings.
func Lookup(ctx context.Context, taxID string) (Record, error) {
	return registry.New().Lookup(ctx, taxID)
}

// Compose renders state as the default message text.
func Compose(state State) string {
	return composer.Compose(state)
}

// Link composes state into the default deep link.
func Link(state State) string {
	return composer.URL(state)
}

// Mask helpers for callers formatting values outside a session.
var (
	MaskTaxID  = mask.TaxID
	MaskPostal = mask.Postal
	MaskPhone  = mask.Phone
)
