package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIDocument describes the JSON endpoints mounted under basePath.
func OpenAPIDocument(basePath string, opts Options) *openapi3.T {
	opts = NewOptions(func(o *Options) { *o = opts })

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Briefing API",
			Description: "Company registry autofill and input masks for the hiring briefing form.",
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema())
	errorResponse := func(description string) *openapi3.Response {
		return openapi3.NewResponse().WithDescription(description).WithJSONSchema(errorSchema)
	}

	record := openapi3.NewObjectSchema()
	for _, name := range []string{"taxId", "legalName", "tradeName", "name", "address", "city", "state", "postalCode", "phone", "activity"} {
		record.WithProperty(name, openapi3.NewStringSchema())
	}

	lookup := openapi3.NewOperation()
	lookup.OperationID = "lookupCompany"
	lookup.Summary = "Look up a company by CNPJ"
	lookup.Tags = []string{"registry"}
	lookup.AddParameter(openapi3.NewPathParameter("cnpj").
		WithDescription("CNPJ, masked or digits only").
		WithSchema(openapi3.NewStringSchema()))
	lookup.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Normalized registry record").
		WithJSONSchema(openapi3.NewObjectSchema().WithProperty("data", record)))
	lookup.AddResponse(http.StatusBadRequest, errorResponse("CNPJ does not have 14 digits"))
	lookup.AddResponse(http.StatusNotFound, errorResponse("CNPJ not found"))
	lookup.AddResponse(http.StatusBadGateway, errorResponse("Registry unavailable"))

	lookupPath := strings.TrimRight(mountPath(basePath, opts.LookupPath), "/") + "/{cnpj}"
	doc.Paths.Set(lookupPath, &openapi3.PathItem{Get: lookup})

	maskOp := openapi3.NewOperation()
	maskOp.OperationID = "applyMask"
	maskOp.Summary = "Format a value with an input mask"
	maskOp.Tags = []string{"masks"}
	maskOp.AddParameter(openapi3.NewQueryParameter("kind").
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema().WithEnum("taxid", "postal", "phone")))
	maskOp.AddParameter(openapi3.NewQueryParameter("value").
		WithSchema(openapi3.NewStringSchema()))
	maskOp.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Masked value").
		WithJSONSchema(openapi3.NewObjectSchema().WithProperty("data", openapi3.NewObjectSchema().
			WithProperty("kind", openapi3.NewStringSchema()).
			WithProperty("value", openapi3.NewStringSchema()).
			WithProperty("digits", openapi3.NewStringSchema()))))
	maskOp.AddResponse(http.StatusBadRequest, errorResponse("Unknown mask kind"))

	doc.Paths.Set(mountPath(basePath, opts.MaskPath), &openapi3.PathItem{Get: maskOp})

	return doc
}

func openAPIHandler(opts Options, basePath string) http.Handler {
	var (
		once    sync.Once
		payload []byte
		err     error
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) || !guard(w, r, opts) {
			return
		}
		once.Do(func() {
			payload, err = json.Marshal(OpenAPIDocument(basePath, opts))
		})
		if err != nil {
			opts.Logger.Sugar().Errorw("marshal openapi document", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(payload)
	})
}
