package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-briefing/pkg/composer"
	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/mask"
	"github.com/goliatone/go-briefing/pkg/registry"
)

// Status lines written by the command handlers.
const (
	StatusLookingUp = "Consultando CNPJ..."
	StatusFilled    = "Dados do CNPJ preenchidos."
	StatusOpening   = "Abrindo WhatsApp com as respostas..."
)

// ErrSuperseded is returned by a lookup whose result was discarded because a
// newer lookup started while it was in flight.
var ErrSuperseded = errors.New("intake: lookup superseded")

// Session owns one briefing form and exposes the user commands that mutate
// it. All methods are safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	state form.State

	looker   registry.Looker
	composer *composer.Composer
	opener   Opener
	logger   *zap.Logger
	newToken func() string

	token  string
	cancel context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

func WithLooker(looker registry.Looker) Option {
	return func(s *Session) {
		if looker != nil {
			s.looker = looker
		}
	}
}

func WithComposer(c *composer.Composer) Option {
	return func(s *Session) {
		if c != nil {
			s.composer = c
		}
	}
}

func WithOpener(opener Opener) Option {
	return func(s *Session) {
		if opener != nil {
			s.opener = opener
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithState seeds the session, e.g. from a posted form.
func WithState(state form.State) Option {
	return func(s *Session) {
		s.state = state
	}
}

// NewSession returns a session over an empty form. Defaults: the public
// registry client, the default composer and an opener that does nothing.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state:    form.New(),
		looker:   registry.New(),
		composer: composer.New(),
		opener:   OpenerFunc(func(context.Context, string) error { return nil }),
		logger:   zap.NewNop(),
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// State returns a snapshot of the form.
func (s *Session) State() form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a lookup is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Apply runs arbitrary reducer events against the session state.
func (s *Session) Apply(events ...form.Event) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = form.Reduce(s.state, events...)
	return s.state
}

// Input handles a keystroke on a scalar field. Masked fields are reformatted.
func (s *Session) Input(key form.Key, raw string) form.State {
	return s.Apply(form.SetValue{Key: key, Value: raw})
}

// Choose selects a radio option.
func (s *Session) Choose(key form.Key, value string) form.State {
	return s.Apply(form.SetValue{Key: key, Value: value})
}

// Toggle checks or unchecks a checkbox option.
func (s *Session) Toggle(key form.Key, option string, checked bool) form.State {
	return s.Apply(form.ToggleOption{Key: key, Option: option, Checked: checked})
}

// Blur handles a field losing focus. Leaving the tax-id field with exactly 14
// digits starts a lookup; every other blur is a no-op.
func (s *Session) Blur(ctx context.Context, key form.Key) (form.State, error) {
	if key != form.EmpresaCNPJ {
		return s.State(), nil
	}
	if len(mask.Digits(s.State().Value(form.EmpresaCNPJ))) != mask.TaxIDDigits {
		return s.State(), nil
	}
	return s.Lookup(ctx)
}

// Lookup queries the registry for the current tax id and merges the result
// with the fill-if-empty policy. A lookup started while another is in flight
// cancels the older one; the older result is discarded and its caller gets
// ErrSuperseded. Failures are written to State.LookupError and also returned.
func (s *Session) Lookup(ctx context.Context) (form.State, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	token := s.newToken()
	lookupCtx, cancel := context.WithCancel(ctx)
	s.token, s.cancel = token, cancel
	raw := s.state.Value(form.EmpresaCNPJ)
	s.state = form.Reduce(s.state, form.SetLookupError{}, form.SetStatus{Message: StatusLookingUp})
	s.mu.Unlock()

	s.logger.Debug("lookup started", zap.String("token", token))
	rec, err := s.looker.Lookup(lookupCtx, raw)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != token {
		s.logger.Debug("lookup result discarded", zap.String("token", token))
		return s.state, ErrSuperseded
	}
	s.token, s.cancel = "", nil

	if err != nil {
		s.logger.Info("lookup failed", zap.String("token", token), zap.Error(err))
		s.state = form.Reduce(s.state,
			form.SetLookupError{Message: registry.Message(err)},
			form.SetStatus{},
		)
		return s.state, err
	}

	s.state = form.Reduce(s.state,
		form.ApplyAutofill{Values: AutofillValues(rec)},
		form.SetStatus{Message: StatusFilled},
	)
	return s.state, nil
}

// Submit composes the message, marks the form as sending and hands the deep
// link to the opener. The link is returned even when opening fails.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	link := s.composer.URL(s.state)
	s.state = form.Reduce(s.state, form.SetStatus{Message: StatusOpening})
	s.mu.Unlock()

	if err := s.opener.Open(ctx, link); err != nil {
		s.logger.Warn("open link failed", zap.Error(err))
		return link, fmt.Errorf("intake: open link: %w", err)
	}
	return link, nil
}

// AutofillValues maps a registry record onto the form keys it may fill.
func AutofillValues(rec registry.Record) map[form.Key]string {
	return map[form.Key]string{
		form.EmpresaNome:     rec.Name,
		form.EmpresaEndereco: rec.Address,
		form.EmpresaCidade:   rec.City,
		form.EmpresaUF:       rec.State,
		form.EmpresaCEP:      rec.PostalCode,
		form.EmpresaTelefone: rec.Phone,
		form.Ramo:            rec.Activity,
	}
}
