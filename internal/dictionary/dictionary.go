// Package dictionary answers "is this token a known English word?".
//
// Two interchangeable backends implement Provider: Corpus bulk-loads and
// unions word lists once, Remote asks a per-word lookup service. Both memoize
// verdicts in a Cache owned by the provider instance, and both treat tokens
// shorter than MinWordLength as unknown.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"railfence/internal/config"
	"railfence/internal/logging"
)

// MinWordLength is the shortest token any backend will accept.
const MinWordLength = 3

// ErrUnknownBackend is returned by New for an unrecognised backend name.
var ErrUnknownBackend = errors.New("dictionary: unknown backend")

// Provider reports whether a token is a known word. Implementations never
// fail; an unreachable backend answers false.
type Provider interface {
	Contains(ctx context.Context, token string) bool
}

// Normalize trims and lower-cases token.
func Normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// TooShort reports whether a normalized token is below MinWordLength.
func TooShort(token string) bool {
	return utf8.RuneCountInString(token) < MinWordLength
}

// cancelled reports whether err came from a cancelled or expired context.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Option configures a backend during construction.
type Option func(*options) error

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}
	if o.timeout > 0 {
		// Copy so a shared client (http.DefaultClient) keeps its own timeout.
		cp := *o.httpClient
		cp.Timeout = o.timeout
		o.httpClient = &cp
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	return o, nil
}

// WithHTTPClient overrides the HTTP client used for remote sources and lookups.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("dictionary: nil http client")
		}
		o.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.timeout = d
		return nil
	}
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.Dictionary, opts ...Option) (Provider, error) {
	if cfg.Timeout > 0 {
		opts = append([]Option{WithTimeout(cfg.Timeout.Std())}, opts...)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case config.BackendCorpus:
		sources := make([]Source, len(cfg.Sources))
		for i, s := range cfg.Sources {
			sources[i] = Source{Name: s.Name, Location: s.Location}
		}
		return NewCorpus(sources, opts...)
	case config.BackendRemote:
		return NewRemote(cfg.Endpoint, opts...)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
	}
}
