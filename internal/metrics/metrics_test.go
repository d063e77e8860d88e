package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"railfence/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	metrics.Attacks.Inc()
	metrics.DictionaryLookups.WithLabelValues("corpus", "known").Inc()

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{
		"railfence_attack_runs_total",
		"railfence_dictionary_lookups_total",
		"railfence_corpus_words",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in exposition output", name)
		}
	}
}

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(metrics.AttackAttempts)
	metrics.AttackAttempts.Add(3)
	if got := testutil.ToFloat64(metrics.AttackAttempts) - before; got != 3 {
		t.Errorf("AttackAttempts delta = %v, want 3", got)
	}
}
