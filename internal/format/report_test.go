package format_test

import (
	"encoding/json"
	"strings"
	"testing"

	"railfence/internal/attack"
	"railfence/internal/format"
	"railfence/internal/score"
	"railfence/internal/store"
)

func sampleReport() *format.AttackReport {
	attempts := []*attack.Attempt{
		{Rails: 3, Plaintext: "meet at dawn", Score: 42.5},
		{Rails: 2, Plaintext: "mtadw eta n", Score: -3.2},
		{Rails: 4, Plaintext: "m ea\ttawdetn", Score: -8.1},
	}
	return &format.AttackReport{
		Ciphertext: "mtaeadw etn",
		Result:     &attack.Result{Best: attempts[0], Attempts: attempts},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    format.Mode
		wantErr bool
	}{
		{"", format.ASCII, false},
		{"ascii", format.ASCII, false},
		{"Markdown", format.Markdown, false},
		{"md", format.Markdown, false},
		{"json", format.JSON, false},
		{"xml", format.ASCII, true},
	}
	for _, tc := range tests {
		got, err := format.ParseMode(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, err=%v", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestFormatAttack_ASCII(t *testing.T) {
	out, err := format.FormatAttack(sampleReport(), format.ASCII)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"meet at dawn",
		format.BestMarker,
		"42.50",
		`m ea\ttawdetn`,
		"Total attempts: 3",
		"Best guess: rails=3 score=42.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, format.BestMarker) != 1 {
		t.Errorf("best marker should appear once:\n%s", out)
	}
}

func TestFormatAttack_TopLimitsRowsNotTotal(t *testing.T) {
	r := sampleReport()
	r.Top = 1
	out, err := format.FormatAttack(r, format.ASCII)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "mtadw eta n") {
		t.Errorf("row beyond --top rendered:\n%s", out)
	}
	if !strings.Contains(out, "Total attempts: 3") {
		t.Errorf("total should count every attempt:\n%s", out)
	}
}

func TestFormatAttack_Markdown(t *testing.T) {
	out, err := format.FormatAttack(sampleReport(), format.Markdown)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "| ") || !strings.Contains(out, "---") {
		t.Errorf("expected markdown table:\n%s", out)
	}
	if !strings.HasPrefix(out, "## ") {
		t.Errorf("expected markdown heading:\n%s", out)
	}
}

func TestFormatAttack_Explain(t *testing.T) {
	r := sampleReport()
	r.Breakdowns = map[int]score.Breakdown{
		3: {Checked: 5, Hits: 3, Weighted: 30, Coverage: 3, Spacing: 0.4},
	}
	out, err := format.FormatAttack(r, format.ASCII)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3/5") || !strings.Contains(out, "30.00") {
		t.Errorf("expected breakdown columns:\n%s", out)
	}
}

func TestFormatAttack_JSON(t *testing.T) {
	r := sampleReport()
	r.Top = 2
	out, err := format.FormatAttack(r, format.JSON)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Best     attack.Attempt   `json:"best"`
		Attempts []attack.Attempt `json:"attempts"`
		Total    int              `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Best.Rails != 3 || doc.Total != 3 || len(doc.Attempts) != 2 {
		t.Errorf("decoded = %+v", doc)
	}
}

func TestFormatHistory(t *testing.T) {
	empty, err := format.FormatHistory(nil, format.ASCII)
	if err != nil || !strings.Contains(empty, "No attacks recorded") {
		t.Errorf("empty history = %q, %v", empty, err)
	}
	emptyJSON, err := format.FormatHistory(nil, format.JSON)
	if err != nil || strings.TrimSpace(emptyJSON) != "[]" {
		t.Errorf("empty JSON history = %q, %v", emptyJSON, err)
	}

	runs := []*store.Run{{
		ID: 7, Ciphertext: "mtaeadw etn", Backend: "corpus",
		BestRails: 3, BestPlaintext: "meet at dawn", BestScore: 42.5, Total: 9,
		CreatedAt: "2026-10-18T10:00:00Z",
	}}
	out, err := format.FormatHistory(runs, format.ASCII)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"meet at dawn", "corpus", "42.50", "2026-10-18T10:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in history:\n%s", want, out)
		}
	}
}

func TestFormatRun(t *testing.T) {
	run := &store.Run{
		ID: 4, Ciphertext: "mtaeadw etn", Backend: "corpus",
		BestRails: 3, BestPlaintext: "meet at dawn", BestScore: 42.5, Total: 9,
		CreatedAt: "2026-10-18T10:00:00Z",
		Attempts: []store.Attempt{
			{Rails: 3, Plaintext: "meet at dawn", Score: 42.5},
			{Rails: 2, Plaintext: "mtadw eta n", Score: -3.2},
		},
	}
	out, err := format.FormatRun(run, format.ASCII)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Run 4",
		"mtadw eta n",
		"Total attempts: 9 (2 stored)",
		"Best guess: rails=3 score=42.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, format.BestMarker) != 1 {
		t.Errorf("best marker should appear once:\n%s", out)
	}

	js, err := format.FormatRun(run, format.JSON)
	if err != nil {
		t.Fatal(err)
	}
	var decoded store.Run
	if err := json.Unmarshal([]byte(js), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, js)
	}
	if len(decoded.Attempts) != 2 || decoded.Attempts[1].Rails != 2 {
		t.Errorf("decoded attempts = %+v", decoded.Attempts)
	}
}
