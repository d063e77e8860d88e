package dictionary

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"railfence/internal/metrics"
)

//go:embed assets/*.txt
var builtinFS embed.FS

const builtinPrefix = "builtin:"

// Source names one word list. Location is "builtin:<name>" for a list
// embedded in the binary, an http(s) URL, or a local file path.
type Source struct {
	Name     string
	Location string
}

// BuiltinNames lists the embedded word lists.
func BuiltinNames() []string {
	entries, _ := builtinFS.ReadDir("assets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	return names
}

// Corpus is the bulk-corpus backend. The first Contains call loads every
// source and unions them into one WordSet; later calls are set lookups.
type Corpus struct {
	sources    []Source
	httpClient *http.Client
	logger     *slog.Logger
	cache      *Cache

	group singleflight.Group
	mu    sync.RWMutex
	words WordSet
	loads atomic.Int64
}

// NewCorpus returns a corpus backend over sources. Nothing is loaded until
// the first lookup or an explicit Load.
func NewCorpus(sources []Source, opts ...Option) (*Corpus, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("dictionary: corpus needs at least one source")
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Corpus{
		sources:    append([]Source(nil), sources...),
		httpClient: o.httpClient,
		logger:     o.logger,
		cache:      NewCache("corpus"),
	}, nil
}

// Contains implements Provider.
func (c *Corpus) Contains(ctx context.Context, token string) bool {
	token = Normalize(token)
	if TooShort(token) {
		return false
	}
	words, err := c.Load(ctx)
	if err != nil {
		return false
	}
	return c.cache.Resolve(ctx, token, func(context.Context, string) (bool, error) {
		return words.Has(token), nil
	})
}

// Cache exposes the lookup cache.
func (c *Corpus) Cache() *Cache { return c.cache }

// Loads is the number of completed corpus loads. It stays at one for the
// lifetime of a Corpus unless a load was cancelled before finishing.
func (c *Corpus) Loads() int64 { return c.loads.Load() }

// Load returns the unioned WordSet, loading it on first use. Concurrent
// first callers wait for the same in-flight load, each bounded by its own
// ctx. Individual source failures are logged and skipped; only cancellation
// is an error. A load cancelled by one caller is retried by any waiting
// caller whose ctx is still live, and otherwise by the next caller.
func (c *Corpus) Load(ctx context.Context) (WordSet, error) {
	if ws := c.loaded(); ws != nil {
		return ws, nil
	}
	for {
		ch := c.group.DoChan("load", func() (any, error) {
			if ws := c.loaded(); ws != nil {
				return ws, nil
			}
			ws, err := c.loadAll(ctx)
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			c.words = ws
			c.mu.Unlock()
			c.loads.Add(1)
			return ws, nil
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(WordSet), nil
			}
			if ctx.Err() == nil && cancelled(res.Err) {
				continue
			}
			return nil, res.Err
		}
	}
}

func (c *Corpus) loaded() WordSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.words
}

func (c *Corpus) loadAll(ctx context.Context) (WordSet, error) {
	ws := make(WordSet)
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kept, err := c.loadSource(ctx, ws, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.CorpusSources.WithLabelValues("failed").Inc()
			c.logger.WarnContext(ctx, "skipping word list", "source", src.Name, "location", src.Location, "error", err)
			continue
		}
		metrics.CorpusSources.WithLabelValues("loaded").Inc()
		c.logger.DebugContext(ctx, "word list loaded", "source", src.Name, "entries", kept)
	}
	metrics.CorpusWords.Set(float64(ws.Len()))
	c.logger.InfoContext(ctx, fmt.Sprintf("loaded %d words from %d wordlist(s)", ws.Len(), len(c.sources)))
	return ws, nil
}

func (c *Corpus) loadSource(ctx context.Context, ws WordSet, src Source) (int, error) {
	rc, err := c.open(ctx, src.Location)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return ws.readWords(rc)
}

func (c *Corpus) open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(location, builtinPrefix):
		name := strings.TrimPrefix(location, builtinPrefix)
		f, err := builtinFS.Open(path.Join("assets", name+".txt"))
		if err != nil {
			return nil, fmt.Errorf("builtin word list %q: %w", name, err)
		}
		return f, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch: status %s", resp.Status)
		}
		return resp.Body, nil
	default:
		f, err := os.Open(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
