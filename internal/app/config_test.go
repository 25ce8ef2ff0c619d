package app

import (
	"testing"
	"time"
)

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, b ,, c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.PodJoinPolicy != "open" {
		t.Errorf("PodJoinPolicy = %q, want open", cfg.PodJoinPolicy)
	}
	if cfg.BattleTTL != 30*time.Minute {
		t.Errorf("BattleTTL = %v, want 30m", cfg.BattleTTL)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("BATTLE_TTL", "5m")
	if d := getEnvDuration("BATTLE_TTL", time.Hour); d != 5*time.Minute {
		t.Errorf("getEnvDuration = %v, want 5m", d)
	}
	t.Setenv("BATTLE_TTL", "garbage")
	if d := getEnvDuration("BATTLE_TTL", time.Hour); d != time.Hour {
		t.Errorf("getEnvDuration fallback = %v, want 1h", d)
	}
}
