package dictionary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Remote is the per-word lookup backend. Each uncached token costs one GET
// to <endpoint>/<token>; a 2xx answer means the word is known, anything else
// (including network failure) means unknown.
type Remote struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	cache      *Cache
}

// NewRemote returns a remote backend for endpoint.
func NewRemote(endpoint string, opts ...Option) (*Remote, error) {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("dictionary: remote endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("dictionary: remote endpoint: %w", err)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Remote{
		endpoint:   endpoint,
		httpClient: o.httpClient,
		logger:     o.logger,
		cache:      NewCache("remote"),
	}, nil
}

// Contains implements Provider.
func (r *Remote) Contains(ctx context.Context, token string) bool {
	token = Normalize(token)
	if TooShort(token) {
		return false
	}
	return r.cache.Resolve(ctx, token, r.lookup)
}

// Cache exposes the lookup cache.
func (r *Remote) Cache() *Cache { return r.cache }

// lookup errors only when ctx is done, so that cancelled lookups stay uncached.
func (r *Remote) lookup(ctx context.Context, token string) (bool, error) {
	u := r.endpoint + "/" + url.PathEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		r.logger.DebugContext(ctx, "word lookup request", "token", token, "error", err)
		return false, nil
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		r.logger.DebugContext(ctx, "word lookup failed", "token", token, "error", err)
		return false, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	r.logger.DebugContext(ctx, "word lookup", "token", token, "status", resp.StatusCode)
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
