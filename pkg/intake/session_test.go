package intake_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/intake"
	"github.com/goliatone/go-briefing/pkg/registry"
	"github.com/goliatone/go-briefing/pkg/testsupport"
)

type lookerFunc func(ctx context.Context, taxID string) (registry.Record, error)

func (f lookerFunc) Lookup(ctx context.Context, taxID string) (registry.Record, error) {
	return f(ctx, taxID)
}

type pendingLookup struct {
	ctx   context.Context
	taxID string
	reply chan registry.Record
}

// manualLooker parks every call until the test replies, ignoring cancellation
// so late answers can be delivered on purpose.
type manualLooker struct {
	calls chan pendingLookup
}

func (m *manualLooker) Lookup(ctx context.Context, taxID string) (registry.Record, error) {
	call := pendingLookup{ctx: ctx, taxID: taxID, reply: make(chan registry.Record, 1)}
	m.calls <- call
	return <-call.reply, nil
}

func acmeRecord() registry.Record {
	return registry.Record{
		Name:       "Acme LTDA",
		Address:    "Rua A, 10 - Centro",
		City:       "Porto Alegre",
		State:      "RS",
		PostalCode: "90010-000",
		Phone:      "(51) 3222-3333",
		Activity:   "Consultoria",
	}
}

func TestInputMasksTaxID(t *testing.T) {
	session := intake.NewSession()
	state := session.Input(form.EmpresaCNPJ, "12345678000195")
	if got := state.Value(form.EmpresaCNPJ); got != "12.345.678/0001-95" {
		t.Fatalf("expected masked tax id, got %q", got)
	}
}

func TestLookupFillsOnlyEmptyFields(t *testing.T) {
	defer goleak.VerifyNone(t)

	looker := lookerFunc(func(_ context.Context, taxID string) (registry.Record, error) {
		if taxID != "12.345.678/0001-95" {
			t.Errorf("unexpected tax id %q", taxID)
		}
		return acmeRecord(), nil
	})
	session := intake.NewSession(intake.WithLooker(looker))
	session.Input(form.EmpresaCNPJ, "12345678000195")
	session.Input(form.EmpresaNome, "Acme")

	state, err := session.Lookup(context.Background())
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got := state.Value(form.EmpresaNome); got != "Acme" {
		t.Fatalf("expected user value to win, got %q", got)
	}
	if got := state.Value(form.EmpresaCidade); got != "Porto Alegre" {
		t.Fatalf("expected city autofill, got %q", got)
	}
	if got := state.Value(form.Ramo); got != "Consultoria" {
		t.Fatalf("expected activity autofill, got %q", got)
	}
	if state.Status != intake.StatusFilled || state.LookupError != "" {
		t.Fatalf("unexpected status %q / error %q", state.Status, state.LookupError)
	}
	if session.Busy() {
		t.Fatalf("expected session to be idle")
	}
}

func TestLookupFailureSetsInlineError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: &registry.ValidationError{Digits: 3}, want: "CNPJ inválido. Informe 14 dígitos."},
		{name: "not found", err: &registry.NotFoundError{}, want: "CNPJ não encontrado."},
		{name: "status", err: &registry.LookupError{Upstream: 503}, want: "Erro ao consultar CNPJ (503)."},
		{name: "foreign", err: errors.New("boom"), want: "Não foi possível consultar o CNPJ."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			looker := lookerFunc(func(context.Context, string) (registry.Record, error) {
				return registry.Record{}, tc.err
			})
			session := intake.NewSession(intake.WithLooker(looker))

			state, err := session.Lookup(context.Background())
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if state.LookupError != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, state.LookupError)
			}
			if state.Status != "" {
				t.Fatalf("expected status to clear, got %q", state.Status)
			}

			// the form stays usable after a failure
			state = session.Input(form.EmpresaNome, "Acme")
			if state.Value(form.EmpresaNome) != "Acme" {
				t.Fatalf("expected input after failure to apply")
			}
		})
	}
}

func TestBlurTriggersLookupOnlyForCompleteTaxID(t *testing.T) {
	var calls int32
	looker := lookerFunc(func(context.Context, string) (registry.Record, error) {
		atomic.AddInt32(&calls, 1)
		return acmeRecord(), nil
	})
	session := intake.NewSession(intake.WithLooker(looker))

	session.Input(form.EmpresaCNPJ, "1234567800019")
	if _, err := session.Blur(context.Background(), form.EmpresaCNPJ); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected no lookup for 13 digits, got %d", got)
	}

	session.Input(form.EmpresaCNPJ, "12345678000195")
	if _, err := session.Blur(context.Background(), form.EmpresaNome); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected no lookup when leaving another field, got %d", got)
	}

	state, err := session.Blur(context.Background(), form.EmpresaCNPJ)
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one lookup, got %d", got)
	}
	if state.Value(form.EmpresaNome) != "Acme LTDA" {
		t.Fatalf("expected autofill on blur")
	}
}

func TestNewerLookupSupersedesInFlightLookup(t *testing.T) {
	defer goleak.VerifyNone(t)

	looker := &manualLooker{calls: make(chan pendingLookup)}
	session := intake.NewSession(intake.WithLooker(looker))
	session.Input(form.EmpresaCNPJ, "12345678000195")

	type outcome struct {
		state form.State
		err   error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		state, err := session.Lookup(context.Background())
		firstDone <- outcome{state, err}
	}()
	first := <-looker.calls

	if !session.Busy() {
		t.Fatalf("expected session to be busy during lookup")
	}
	if got := session.State().Status; got != intake.StatusLookingUp {
		t.Fatalf("expected %q, got %q", intake.StatusLookingUp, got)
	}

	secondDone := make(chan outcome, 1)
	go func() {
		state, err := session.Lookup(context.Background())
		secondDone <- outcome{state, err}
	}()
	second := <-looker.calls

	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected superseded lookup to be cancelled")
	}

	first.reply <- registry.Record{Name: "Stale LTDA", City: "Stale"}
	res := <-firstDone
	if !errors.Is(res.err, intake.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", res.err)
	}
	if got := session.State().Value(form.EmpresaNome); got != "" {
		t.Fatalf("stale result leaked into state: %q", got)
	}
	if !session.Busy() {
		t.Fatalf("expected session to stay busy for the newer lookup")
	}

	second.reply <- acmeRecord()
	res = <-secondDone
	if res.err != nil {
		t.Fatalf("second lookup: %v", res.err)
	}
	if got := res.state.Value(form.EmpresaNome); got != "Acme LTDA" {
		t.Fatalf("expected newest result, got %q", got)
	}
	if session.Busy() {
		t.Fatalf("expected session to be idle")
	}
}

func TestSubmitOpensDeepLink(t *testing.T) {
	var opened string
	session := intake.NewSession(intake.WithOpener(intake.OpenerFunc(func(_ context.Context, url string) error {
		opened = url
		return nil
	})))
	session.Choose(form.Origem, "Outro")
	session.Input(form.OrigemOutro, "Feira")

	link, err := session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if opened != link {
		t.Fatalf("expected opener to receive %q, got %q", link, opened)
	}
	if !strings.HasPrefix(link, "https://wa.me/5551993796131?text=") {
		t.Fatalf("unexpected link %q", link)
	}
	if !strings.Contains(link, "Outro%20(Feira)") {
		t.Fatalf("expected origin parenthetical in %q", link)
	}
	if got := session.State().Status; got != intake.StatusOpening {
		t.Fatalf("expected %q, got %q", intake.StatusOpening, got)
	}
}

func TestSubmitReportsOpenerFailure(t *testing.T) {
	boom := errors.New("no browser")
	session := intake.NewSession(intake.WithOpener(intake.OpenerFunc(func(context.Context, string) error {
		return boom
	})))

	link, err := session.Submit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected opener error, got %v", err)
	}
	if link == "" {
		t.Fatalf("expected link even on failure")
	}
}

func TestWriterOpener(t *testing.T) {
	var buf bytes.Buffer
	if err := (intake.WriterOpener{W: &buf}).Open(context.Background(), "https://wa.me/1?text=x"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if buf.String() != "https://wa.me/1?text=x\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestToggleThroughSession(t *testing.T) {
	session := intake.NewSession()
	session.Toggle(form.TipoContrato, "PJ", true)
	state := session.Toggle(form.TipoContrato, "CLT", true)

	got := state.Selected(form.TipoContrato)
	if len(got) != 2 || got[0] != "PJ" || got[1] != "CLT" {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestLookupKeepsEveryAnsweredField(t *testing.T) {
	filled := testsupport.FilledState()
	session := intake.NewSession(
		intake.WithState(filled),
		intake.WithLooker(lookerFunc(func(context.Context, string) (registry.Record, error) {
			return testsupport.AcmeRecord(), nil
		})),
	)

	state, err := session.Lookup(testsupport.Context())
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	for key, value := range intake.AutofillValues(testsupport.AcmeRecord()) {
		if got, want := state.Value(key), filled.Value(key); got != want {
			t.Fatalf("%s overwritten: want %q, got %q (registry had %q)", key, want, got, value)
		}
	}
}
