package railfence_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"railfence/internal/railfence"

	"github.com/google/go-cmp/cmp"
)

func TestEncrypt_ClassicExample(t *testing.T) {
	got := railfence.Encrypt("WEAREDISCOVEREDFLEEATONCE", 3)
	if want := "WECRLTEERDSOEEFEAOCAIVDEN"; got != want {
		t.Errorf("Encrypt = %q, want %q", got, want)
	}
}

func TestDecrypt_ClassicExample(t *testing.T) {
	got := railfence.Decrypt("WECRLTEERDSOEEFEAOCAIVDEN", 3)
	if want := "WEAREDISCOVEREDFLEEATONCE"; got != want {
		t.Errorf("Decrypt = %q, want %q", got, want)
	}
}

func TestEncrypt_HelloWorld(t *testing.T) {
	got := railfence.Encrypt("HELLO WORLD", 3)
	if want := "HOREL OLLWD"; got != want {
		t.Errorf("Encrypt = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	messages := []string{
		"ab c",
		"hello world this is a test message",
		"The quick brown fox jumps over the lazy dog!",
		"1234567890",
		"naïve café — zigzag ünïcode",
		strings.Repeat("xyz ", 40),
	}
	for _, m := range messages {
		n := utf8.RuneCountInString(m)
		for rails := 2; rails < n; rails++ {
			enc := railfence.Encrypt(m, rails)
			if utf8.RuneCountInString(enc) != n {
				t.Fatalf("rails=%d: length %d, want %d", rails, utf8.RuneCountInString(enc), n)
			}
			if dec := railfence.Decrypt(enc, rails); dec != m {
				t.Fatalf("rails=%d: Decrypt(Encrypt(%q)) = %q", rails, m, dec)
			}
		}
	}
}

func TestIdentityBoundary(t *testing.T) {
	tests := []struct {
		msg   string
		rails int
	}{
		{"", 2},
		{"", 0},
		{"a", 2},
		{"ab", 2},
		{"abc", 3},
		{"abc", 10},
		{"abcdef", 1},
		{"abcdef", 0},
		{"abcdef", -4},
	}
	for _, tt := range tests {
		if got := railfence.Encrypt(tt.msg, tt.rails); got != tt.msg {
			t.Errorf("Encrypt(%q, %d) = %q, want identity", tt.msg, tt.rails, got)
		}
		if got := railfence.Decrypt(tt.msg, tt.rails); got != tt.msg {
			t.Errorf("Decrypt(%q, %d) = %q, want identity", tt.msg, tt.rails, got)
		}
	}
}

func TestPattern(t *testing.T) {
	want := []int{0, 1, 2, 3, 2, 1, 0, 1, 2, 3}
	if diff := cmp.Diff(want, railfence.Pattern(10, 4)); diff != "" {
		t.Errorf("Pattern mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 0, 0}, railfence.Pattern(3, 1)); diff != "" {
		t.Errorf("Pattern(rails=1) mismatch (-want +got):\n%s", diff)
	}
}

func TestDegenerate(t *testing.T) {
	if !railfence.Degenerate(5, 1) || !railfence.Degenerate(5, 5) || !railfence.Degenerate(5, 9) {
		t.Error("expected degenerate keys to be reported")
	}
	if railfence.Degenerate(5, 2) || railfence.Degenerate(5, 4) {
		t.Error("expected valid keys not to be reported")
	}
}

func TestFence(t *testing.T) {
	got := railfence.Fence("HELLOWORLD", 3)
	want := "H...O...L.\n" +
		".E.L.W.R.D\n" +
		"..L...O..."
	if got != want {
		t.Errorf("Fence =\n%s\nwant\n%s", got, want)
	}
}
