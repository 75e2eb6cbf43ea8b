package middleware

import (
	"testing"
	"time"

	"github.com/use-agent/printprobe/config"
)

func TestValidKey(t *testing.T) {
	keys := [][]byte{[]byte("alpha"), []byte("beta")}
	for key, want := range map[string]bool{
		"alpha": true,
		"beta":  true,
		"alph":  false,
		"":      false,
		"gamma": false,
	} {
		if got := validKey(keys, []byte(key)); got != want {
			t.Errorf("validKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestLimiterSet(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ls := newLimiterSet(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2})
	ls.now = func() time.Time { return now }

	if !ls.allow("a") || !ls.allow("a") {
		t.Fatal("burst not honoured")
	}
	if ls.allow("a") {
		t.Error("third request within a second allowed")
	}
	if !ls.allow("b") {
		t.Error("identities share a bucket")
	}

	now = now.Add(time.Second)
	if !ls.allow("a") {
		t.Error("bucket did not refill")
	}

	now = now.Add(2 * time.Hour)
	ls.allow("c")
	if _, ok := ls.entries["a"]; ok {
		t.Error("idle limiter not swept")
	}
	if len(ls.entries) != 1 {
		t.Errorf("entries = %d, want 1", len(ls.entries))
	}
}
