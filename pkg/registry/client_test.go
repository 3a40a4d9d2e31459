package registry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-briefing/pkg/registry"
	"github.com/goliatone/go-briefing/pkg/testsupport"
)

const acmePayload = `{
	"cnpj": "12345678000195",
	"razao_social": "ACME INDUSTRIA LTDA",
	"nome_fantasia": "ACME",
	"logradouro": "RUA DOS ANDRADAS",
	"numero": "1234",
	"complemento": "",
	"bairro": "CENTRO HISTORICO",
	"municipio": "PORTO ALEGRE",
	"uf": "RS",
	"cep": "90020008",
	"ddd_telefone_1": "5132223333",
	"cnae_fiscal": 4751201,
	"cnae_fiscal_descricao": "Comércio varejista especializado de equipamentos"
}`

func newRegistryServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/api/cnpj/v1/12345678000195" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept application/json, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestLookupNormalizesRecord(t *testing.T) {
	srv, _ := newRegistryServer(t, http.StatusOK, acmePayload)
	client := registry.New(registry.WithBaseURL(srv.URL), registry.WithHTTPClient(srv.Client()))

	rec, err := client.Lookup(context.Background(), "12.345.678/0001-95")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	want := registry.Record{
		TaxID:      "12.345.678/0001-95",
		LegalName:  "ACME INDUSTRIA LTDA",
		TradeName:  "ACME",
		Name:       "ACME INDUSTRIA LTDA",
		Address:    "RUA DOS ANDRADAS, 1234 - CENTRO HISTORICO",
		City:       "PORTO ALEGRE",
		State:      "RS",
		PostalCode: "90020-008",
		Phone:      "(51) 3222-3333",
		Activity:   "Comércio varejista especializado de equipamentos",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupFallsBackToTradeNameAndTolerantFields(t *testing.T) {
	body := `{"razao_social": null, "nome_fantasia": "Loja", "numero": 42, "logradouro": "", "bairro": "Centro", "cep": null, "ddd_telefone_1": ""}`
	srv, _ := newRegistryServer(t, http.StatusOK, body)
	client := registry.New(registry.WithBaseURL(srv.URL), registry.WithHTTPClient(srv.Client()))

	rec, err := client.Lookup(context.Background(), "12345678000195")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.Name != "Loja" {
		t.Fatalf("expected trade name fallback, got %q", rec.Name)
	}
	if rec.Address != "42 - Centro" {
		t.Fatalf("unexpected address %q", rec.Address)
	}
	if rec.PostalCode != "" || rec.Phone != "" {
		t.Fatalf("expected empty postal code and phone, got %q / %q", rec.PostalCode, rec.Phone)
	}
}

func TestLookupRejectsInvalidTaxIDWithoutNetwork(t *testing.T) {
	srv, calls := newRegistryServer(t, http.StatusOK, acmePayload)
	client := registry.New(registry.WithBaseURL(srv.URL), registry.WithHTTPClient(srv.Client()))

	for _, raw := range []string{"", "123", "12.345.678/0001-9", "123456780001950"} {
		_, err := client.Lookup(context.Background(), raw)
		if !errors.Is(err, registry.ErrValidation) {
			t.Fatalf("%q: expected ErrValidation, got %v", raw, err)
		}
		if err.Error() != registry.MessageInvalid {
			t.Fatalf("%q: unexpected message %q", raw, err.Error())
		}
	}
	if got := atomic.LoadInt32(calls); got != 0 {
		t.Fatalf("expected no network calls, got %d", got)
	}
}

func TestLookupStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
		code     int
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"not found"}`, sentinel: registry.ErrNotFound, message: "CNPJ não encontrado.", code: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, sentinel: registry.ErrLookup, message: "Erro ao consultar CNPJ (500).", code: http.StatusInternalServerError},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, sentinel: registry.ErrLookup, message: "Erro ao consultar CNPJ (429).", code: http.StatusTooManyRequests},
		{name: "bad body", status: http.StatusOK, body: `{"razao_social":`, sentinel: registry.ErrLookup, message: registry.MessageFailed, code: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newRegistryServer(t, tc.status, tc.body)
			client := registry.New(registry.WithBaseURL(srv.URL), registry.WithHTTPClient(srv.Client()))

			_, err := client.Lookup(context.Background(), "12345678000195")
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			if got := registry.Message(err); got != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, got)
			}
			var coded interface{ StatusCode() int }
			if !errors.As(err, &coded) || coded.StatusCode() != tc.code {
				t.Fatalf("expected status code %d, got %v", tc.code, err)
			}
		})
	}
}

func TestLookupTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := registry.New(registry.WithBaseURL(url), registry.WithTimeout(time.Second))
	_, err := client.Lookup(context.Background(), "12345678000195")
	if !errors.Is(err, registry.ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
	if got := registry.Message(err); got != registry.MessageFailed {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestLookupCachesSuccessfulRecords(t *testing.T) {
	srv, calls := newRegistryServer(t, http.StatusOK, acmePayload)
	client := registry.New(
		registry.WithBaseURL(srv.URL),
		registry.WithHTTPClient(srv.Client()),
		registry.WithCacheTTL(time.Minute),
	)

	first, err := client.Lookup(context.Background(), "12.345.678/0001-95")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := client.Lookup(context.Background(), "12345678000195")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached record mismatch (-want +got):\n%s", diff)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestLookupRecordsSpanAndLogs(t *testing.T) {
	srv, _ := newRegistryServer(t, http.StatusInternalServerError, `{}`)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	core, logs := observer.New(zapcore.DebugLevel)

	client := registry.New(
		registry.WithBaseURL(srv.URL),
		registry.WithHTTPClient(srv.Client()),
		registry.WithTracer(provider.Tracer("test")),
		registry.WithLogger(zap.New(core)),
	)

	if _, err := client.Lookup(context.Background(), "12345678000195"); err == nil {
		t.Fatalf("expected error")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "registry.lookup" {
		t.Fatalf("unexpected span name %q", spans[0].Name())
	}

	warnings := logs.FilterMessage("registry lookup failed").All()
	if len(warnings) != 1 {
		t.Fatalf("expected one failure log, got %d", len(warnings))
	}
	if got := warnings[0].ContextMap()["upstream_status"]; got != int64(500) {
		t.Fatalf("expected upstream_status 500, got %v", got)
	}
}

func TestLookupHonorsCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(acmePayload))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := registry.New(registry.WithBaseURL(srv.URL), registry.WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, "12345678000195")
	if !errors.Is(err, registry.ErrLookup) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled lookup error, got %v", err)
	}
}

func TestLookupMatchesSharedFixture(t *testing.T) {
	srv, _ := newRegistryServer(t, http.StatusOK, testsupport.AcmeRegistryJSON)
	client := registry.New(registry.WithBaseURL(srv.URL), registry.WithHTTPClient(srv.Client()))

	rec, err := client.Lookup(testsupport.Context(), "12345678000195")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if diff := testsupport.CompareGolden(testsupport.AcmeRecord(), rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestAbandonedLookupStillHitsTimeout(t *testing.T) {
	released := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(released)
	}))
	t.Cleanup(srv.Close)

	client := registry.New(
		registry.WithBaseURL(srv.URL),
		registry.WithHTTPClient(srv.Client()),
		registry.WithTimeout(50*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Lookup(ctx, "12345678000195")
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected caller cancellation, got %v", err)
	}
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatalf("upstream request was not bounded by the client timeout")
	}
}
