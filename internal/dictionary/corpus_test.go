package dictionary_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"railfence/internal/config"
	"railfence/internal/dictionary"
)

func TestCorpus_BuiltinLists(t *testing.T) {
	var sources []dictionary.Source
	for _, name := range dictionary.BuiltinNames() {
		sources = append(sources, dictionary.Source{Name: name, Location: "builtin:" + name})
	}
	if len(sources) == 0 {
		t.Fatal("expected embedded word lists")
	}
	c, err := dictionary.NewCorpus(sources)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, w := range []string{"hello", "world", "the", "message", "ATTACK", "  dawn "} {
		if !c.Contains(ctx, w) {
			t.Errorf("Contains(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"xqzv", "hlo", ""} {
		if c.Contains(ctx, w) {
			t.Errorf("Contains(%q) = true, want false", w)
		}
	}
}

func TestCorpus_ShortTokensNeverKnown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.txt")
	if err := os.WriteFile(path, []byte("is\nhi\nan\nant\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := dictionary.NewCorpus([]dictionary.Source{{Name: "short", Location: path}})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, w := range []string{"is", "hi", "an"} {
		if c.Contains(ctx, w) {
			t.Errorf("Contains(%q) = true, want false for short token", w)
		}
	}
	if !c.Contains(ctx, "ant") {
		t.Error("Contains(ant) = false, want true")
	}
	if got := c.Cache().Len(); got != 1 {
		t.Errorf("cache Len = %d, want 1 (short tokens are not cached)", got)
	}
}

func TestCorpus_NormalizesAndUnions(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("  Apple \r\nBANANA\nok\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("cherry\napple\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := dictionary.NewCorpus([]dictionary.Source{
		{Name: "a", Location: a},
		{Name: "b", Location: "file://" + b},
	})
	if err != nil {
		t.Fatal(err)
	}
	ws, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ws.Len() != 3 {
		t.Errorf("WordSet Len = %d, want 3 (apple, banana, cherry)", ws.Len())
	}
	for _, w := range []string{"apple", "banana", "cherry"} {
		if !ws.Has(w) {
			t.Errorf("expected %q in word set", w)
		}
	}
}

func TestCorpus_SkipsFailedSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.txt":
			w.Write([]byte("remote\nwords\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := dictionary.NewCorpus([]dictionary.Source{
		{Name: "missing-file", Location: filepath.Join(t.TempDir(), "absent.txt")},
		{Name: "missing-url", Location: srv.URL + "/absent.txt"},
		{Name: "missing-builtin", Location: "builtin:nope"},
		{Name: "good", Location: srv.URL + "/good.txt"},
	}, dictionary.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if !c.Contains(ctx, "remote") || !c.Contains(ctx, "words") {
		t.Error("expected words from the reachable source")
	}
	ws, _ := c.Load(ctx)
	if ws.Len() != 2 {
		t.Errorf("WordSet Len = %d, want 2", ws.Len())
	}
}

func TestCorpus_SingleFlightLoad(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte("alpha\nbravo\ncharlie\n"))
	}))
	defer srv.Close()

	c, err := dictionary.NewCorpus([]dictionary.Source{{Name: "slow", Location: srv.URL}},
		dictionary.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Contains(context.Background(), "bravo")
		}(i)
	}
	close(release)
	wg.Wait()

	for i, ok := range results {
		if !ok {
			t.Errorf("caller %d: Contains(bravo) = false", i)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("source fetched %d times, want 1", got)
	}
	if got := c.Loads(); got != 1 {
		t.Errorf("Loads = %d, want 1", got)
	}
}

func TestCorpus_CancelledLoadIsRetried(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.txt")
	if err := os.WriteFile(path, []byte("delta\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := dictionary.NewCorpus([]dictionary.Source{{Name: "w", Location: path}})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if c.Contains(ctx, "delta") {
		t.Error("Contains with cancelled context = true, want false")
	}
	if c.Loads() != 0 {
		t.Errorf("Loads = %d after cancelled load, want 0", c.Loads())
	}
	if !c.Contains(context.Background(), "delta") {
		t.Error("Contains after retry = false, want true")
	}
	if c.Loads() != 1 {
		t.Errorf("Loads = %d, want 1", c.Loads())
	}
}

func TestCorpus_CancelledLoadDoesNotAffectWaiters(t *testing.T) {
	release := make(chan struct{})
	srv, arrived, hits := gatedServer(t, release)
	c, err := dictionary.NewCorpus([]dictionary.Source{{Name: "slow", Location: srv.URL}},
		dictionary.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan bool, 1)
	go func() { first <- c.Contains(firstCtx, "bravo") }()
	waitArrival(t, arrived)

	second := make(chan bool, 1)
	go func() { second <- c.Contains(context.Background(), "bravo") }()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if <-first {
		t.Error("cancelled caller reported known")
	}
	waitArrival(t, arrived)
	close(release)

	if !<-second {
		t.Error("caller with a live context got known=false after another caller cancelled the load")
	}
	if got := c.Loads(); got != 1 {
		t.Errorf("Loads = %d, want 1", got)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("source fetched %d times, want 2 (cancelled + retry)", got)
	}
}

func TestNewCorpus_NoSources(t *testing.T) {
	if _, err := dictionary.NewCorpus(nil); err == nil {
		t.Fatal("expected error for corpus without sources")
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := config.Default().Dictionary
	p, err := dictionary.New(cfg)
	if err != nil {
		t.Fatalf("New(corpus): %v", err)
	}
	if _, ok := p.(*dictionary.Corpus); !ok {
		t.Errorf("New(corpus) = %T, want *Corpus", p)
	}

	cfg.Backend = config.BackendRemote
	p, err = dictionary.New(cfg)
	if err != nil {
		t.Fatalf("New(remote): %v", err)
	}
	if _, ok := p.(*dictionary.Remote); !ok {
		t.Errorf("New(remote) = %T, want *Remote", p)
	}

	cfg.Backend = "telepathy"
	if _, err := dictionary.New(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestWordSet_Provider(t *testing.T) {
	var p dictionary.Provider = dictionary.NewWordSet("Hello", "is", "World ")
	ctx := context.Background()
	if !p.Contains(ctx, "HELLO") || !p.Contains(ctx, "world") {
		t.Error("expected normalized words to be found")
	}
	if p.Contains(ctx, "is") {
		t.Error("short words must never be known")
	}
}
