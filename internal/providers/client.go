package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mrlokans/mediashelf/internal/apperr"
)

const DefaultTimeout = 5 * time.Second

// Recorder receives one observation per upstream call.
type Recorder interface {
	ObserveProviderCall(provider, outcome string, elapsed time.Duration)
}

const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeCircuitOpen = "circuit_open"
)

// ClientConfig is shared by every variant.
type ClientConfig struct {
	Timeout         time.Duration
	RatePerSecond   float64 // 0 disables throttling
	Burst           int
	BreakerFailures uint32 // 0 disables the circuit breaker
	BreakerCooldown time.Duration
	UserAgent       string
	HTTPClient      *http.Client
	Recorder        Recorder
	Logger          *zap.Logger
}

var errUpstreamNotFound = errors.New("upstream returned 404")

// client is the HTTP plumbing behind every variant: throttling, a circuit
// breaker, a per-call timeout and error kind mapping.
type client struct {
	name       Name
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	timeout    time.Duration
	userAgent  string
	recorder   Recorder
	logger     *zap.Logger
}

func newClient(name Name, baseURL string, cfg ClientConfig) *client {
	c := &client{
		name:       name,
		baseURL:    baseURL,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		userAgent:  cfg.UserAgent,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("provider", string(name)))

	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	if cfg.BreakerFailures > 0 {
		failures := cfg.BreakerFailures
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    string(name),
			Timeout: cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// A missing record is a healthy upstream answer.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errUpstreamNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.Warn("provider circuit state changed",
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
	return c
}

// CircuitState reports the breaker state: closed, half-open, open, or
// disabled when no breaker is configured.
func (c *client) CircuitState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State().String()
}

// withDeadline bounds a whole operation, including follow-up calls, by the
// per-call timeout. Nested getJSON calls can only shorten it.
func (c *client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// getJSON issues GET baseURL+path?query and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.limiter.Wait(ctx)
	if err == nil {
		err = c.execute(func() error { return c.do(ctx, path, query, out) })
	}
	c.observe(start, err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errUpstreamNotFound):
		return apperr.Wrap(apperr.ErrNotFound, "content not found upstream", err)
	default:
		c.logger.Warn("provider call failed", zap.String("path", path), zap.Error(err))
		return apperr.Wrap(apperr.ErrProviderUnavailable, fmt.Sprintf("%s is unavailable", c.name), err)
	}
}

func (c *client) execute(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (c *client) do(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errUpstreamNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *client) observe(start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, errUpstreamNotFound):
		outcome = OutcomeNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = OutcomeCircuitOpen
	default:
		outcome = OutcomeError
	}
	c.recorder.ObserveProviderCall(string(c.name), outcome, time.Since(start))
}
