package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-briefing/pkg/mask"
)

const (
	// DefaultBaseURL is the public BrasilAPI endpoint.
	DefaultBaseURL = "https://brasilapi.com.br"
	lookupPath     = "/api/cnpj/v1/"
	// DefaultTimeout bounds each registry request unless WithTimeout
	// overrides it.
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	tracerName     = "github.com/goliatone/go-briefing/pkg/registry"
)

// Looker resolves a raw tax id into a registry record.
type Looker interface {
	Lookup(ctx context.Context, taxID string) (Record, error)
}

var _ Looker = (*Client)(nil)

// Client queries the BrasilAPI CNPJ endpoint.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
	cacheTTL time.Duration
	cache    *gocache.Cache
	limiter  *rate.Limiter
	group    singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the registry host, mostly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

// WithHTTPClient swaps the transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each registry request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithCacheTTL keeps successful records for ttl. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New builds a Client. Without options it talks to DefaultBaseURL with
// http.DefaultClient and DefaultTimeout, no cache and no throttle.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.cacheTTL > 0 {
		c.cache = gocache.New(c.cacheTTL, 2*c.cacheTTL)
	}
	return c
}

// Lookup validates raw, then fetches and normalizes the registry entry.
// Identical tax ids requested concurrently share one upstream call; the shared
// call is not cancelled when a single caller gives up.
func (c *Client) Lookup(ctx context.Context, raw string) (Record, error) {
	digits := mask.Digits(raw)
	if len(digits) != mask.TaxIDDigits {
		return Record{}, &ValidationError{Digits: len(digits)}
	}

	ctx, span := c.tracer.Start(ctx, "registry.lookup",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("registry.tax_id", digits)),
	)
	defer span.End()

	if c.cache != nil {
		if cached, ok := c.cache.Get(digits); ok {
			span.SetAttributes(attribute.Bool("registry.cache_hit", true))
			c.logger.Debug("registry cache hit", zap.String("tax_id", digits))
			return cached.(Record), nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Record{}, c.fail(span, digits, &LookupError{Err: err})
		}
	}

	results := c.group.DoChan(digits, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), digits)
	})

	select {
	case <-ctx.Done():
		return Record{}, c.fail(span, digits, &LookupError{Err: ctx.Err()})
	case res := <-results:
		if res.Err != nil {
			return Record{}, c.fail(span, digits, res.Err)
		}
		rec := res.Val.(Record)
		if c.cache != nil {
			c.cache.SetDefault(digits, rec)
		}
		span.SetAttributes(attribute.Bool("registry.shared", res.Shared))
		span.SetStatus(codes.Ok, "")
		c.logger.Debug("registry lookup complete",
			zap.String("tax_id", digits),
			zap.Bool("shared", res.Shared),
		)
		return rec, nil
	}
}

func (c *Client) fetch(ctx context.Context, digits string) (Record, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+lookupPath+digits, nil)
	if err != nil {
		return Record{}, &LookupError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Record{}, &LookupError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("registry response",
		zap.String("tax_id", digits),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return Record{}, &NotFoundError{TaxID: digits}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Record{}, &LookupError{Upstream: resp.StatusCode}
	}

	var payload apiRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return Record{}, &LookupError{Err: err}
	}
	return payload.normalize(digits), nil
}

func (c *Client) fail(span trace.Span, digits string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields := []zap.Field{zap.String("tax_id", digits), zap.Error(err)}
	var lookup *LookupError
	if errors.As(err, &lookup) {
		if lookup.Upstream > 0 {
			fields = append(fields, zap.Int("upstream_status", lookup.Upstream))
		}
		c.logger.Warn("registry lookup failed", fields...)
		return err
	}
	c.logger.Info("registry lookup rejected", fields...)
	return err
}
