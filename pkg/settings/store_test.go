package settings

import (
	"testing"
	"time"

	"searchconsole-go/pkg/keyword"
)

func TestStore_BrandedRulesRoundtrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if rules := store.BrandedRules(); len(rules) != 0 {
		t.Errorf("Expected no rules initially, got %d", len(rules))
	}

	rules := []keyword.Rule{
		{Type: keyword.MatchContains, Value: "acme"},
		{Type: keyword.MatchStartsWith, Value: "acme store"},
	}
	if err := store.SetBrandedRules(rules); err != nil {
		t.Fatalf("Failed to save rules: %v", err)
	}

	loaded := store.BrandedRules()
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(loaded))
	}
	if loaded[0] != rules[0] || loaded[1] != rules[1] {
		t.Errorf("Rules changed on roundtrip: %+v", loaded)
	}
}

func TestStore_LastSync(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	when := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	if err := store.SetLastSync(when); err != nil {
		t.Fatalf("Failed to set last sync: %v", err)
	}

	got, err := store.LastSync()
	if err != nil {
		t.Fatalf("Failed to read last sync: %v", err)
	}
	if !got.Equal(when) {
		t.Errorf("Expected %v, got %v", when, got)
	}
}

func TestStore_SettingsSurviveEachOther(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rules := []keyword.Rule{{Type: keyword.MatchExact, Value: "acme"}}
	if err := store.SetBrandedRules(rules); err != nil {
		t.Fatalf("Failed to save rules: %v", err)
	}
	if err := store.SetLastSync(time.Now()); err != nil {
		t.Fatalf("Failed to set last sync: %v", err)
	}

	// Writing the sync timestamp must not drop the rules
	if got := store.BrandedRules(); len(got) != 1 {
		t.Errorf("Rules lost after sync write: %d", len(got))
	}
}
