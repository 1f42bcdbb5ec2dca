// Package llm is the answer generator client. It sends prompts to the Gemini
// generateContent API and fails over across an ordered list of API keys,
// honoring server retry hints on rate limited responses.
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lshigami/reansql/internal/logger"
	"github.com/lshigami/reansql/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
	DefaultTimeout        = 60 * time.Second

	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type Config struct {
	APIKeys         []string
	Model           string
	BaseURL         string
	Transport       string
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
	// MaxRetries bounds the rate limit retries spent on a single key.
	MaxRetries     int
	InitialBackoff time.Duration
	Timeout        time.Duration
}

type Option func(*Client)

// WithCaller replaces the transport used for each request.
func WithCaller(c Caller) Option {
	return func(cl *Client) { cl.caller = c }
}

// WithSleep replaces the wait between rate limit retries.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(cl *Client) { cl.sleep = sleep }
}

// WithHTTPClient sets the HTTP client used by the REST transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.httpClient = hc }
}

// Client is safe for concurrent use. Its key list is fixed at construction.
type Client struct {
	keys           []string
	caller         Caller
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	keys := make([]string, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, ErrNoCredentials
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		keys:           keys,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.caller == nil {
		params := GenerationParams{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		}
		switch strings.ToLower(cfg.Transport) {
		case TransportSDK:
			c.caller = NewSDKCaller(cfg.Model, params, GoogleRetryInfoParser{})
		default:
			hc := c.httpClient
			if hc == nil {
				hc = &http.Client{Timeout: cfg.Timeout}
			}
			c.caller = NewRESTCaller(hc, cfg.BaseURL, cfg.Model, params, GoogleRetryInfoParser{})
		}
	}

	log.Info().
		Int("keys", len(keys)).
		Str("model", cfg.Model).
		Str("transport", cfg.Transport).
		Msg("Generator client initialized")
	return c, nil
}

// Generate tries each key in order. A rate limited key is retried up to
// MaxRetries times, waiting for the server hint or an exponential backoff;
// any other failure moves on to the next key immediately. Context errors are
// returned as is.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var (
		attempts []Attempt
		lastErr  error
	)

	for idx, key := range c.keys {
		masked := logger.MaskKey(key)

		for retry := 0; ; retry++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			text, err := c.caller.Call(ctx, key, prompt)
			if err == nil {
				metrics.GenerationAttempts.WithLabelValues(string(OutcomeOK)).Inc()
				log.Debug().Str("key", masked).Int("retry", retry).Msg("Generation succeeded")
				return text, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}

			outcome := outcomeOf(err)
			metrics.GenerationAttempts.WithLabelValues(string(outcome)).Inc()
			attempts = append(attempts, Attempt{Credential: masked, Outcome: outcome, Err: err})
			lastErr = err

			var rl *RateLimitError
			if !errors.As(err, &rl) || retry >= c.maxRetries {
				log.Warn().Err(err).
					Str("key", masked).
					Int("key_index", idx).
					Str("outcome", string(outcome)).
					Msg("Giving up on API key")
				break
			}

			wait := rl.RetryAfter
			if wait <= 0 {
				wait = c.initialBackoff << retry
			}
			log.Warn().
				Str("key", masked).
				Int("retry", retry+1).
				Dur("wait", wait).
				Bool("server_hint", rl.RetryAfter > 0).
				Msg("Rate limited, retrying same key")

			if err := c.sleep(ctx, wait); err != nil {
				return "", err
			}
		}
	}

	log.Error().Err(lastErr).Int("attempts", len(attempts)).Msg("All API keys exhausted")
	return "", &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// Close releases transport resources held by the client.
func (c *Client) Close() error {
	if closer, ok := c.caller.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
