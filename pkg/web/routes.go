package web

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes lists the patterns registered by RegisterRoutes.
type Routes struct {
	Page    string
	Lookup  string
	Mask    string
	OpenAPI string
}

// MountPath returns the page mount path under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.PagePath)
}

// RegisterRoutes mounts the page, the JSON endpoints and the OpenAPI document
// under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers handlers using a pre-built Options
// value. Defaults are applied again so a zero Options is usable.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("web: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	routes := Routes{
		Page:    mountPath(basePath, opts.PagePath),
		Lookup:  mountPath(basePath, opts.LookupPath),
		Mask:    mountPath(basePath, opts.MaskPath),
		OpenAPI: mountPath(basePath, opts.OpenAPIPath),
	}
	if !strings.HasSuffix(routes.Lookup, "/") {
		routes.Lookup += "/"
	}

	mux.Handle(routes.Page, exactPath(routes.Page, pageHandler(opts, routes.Page)))
	mux.Handle(routes.Lookup, lookupHandler(opts, routes.Lookup))
	mux.Handle(routes.Mask, maskHandler(opts))
	mux.Handle(routes.OpenAPI, openAPIHandler(opts, basePath))
	return routes, nil
}

// exactPath keeps a subtree pattern such as "/" from answering for every
// unknown path.
func exactPath(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
