package env

import (
	"reflect"
	"strings"
	"testing"

	"slot_backend/internal/engine"
)

func TestRepoConfigMatchesDefaults(t *testing.T) {
	cfg, err := NewSlotConfigFromYAML("../../../config.yaml")
	if err != nil {
		t.Fatalf("load config.yaml: %v", err)
	}
	def := DefaultSlotConfig()

	got, want := cfg.Rules(), def.Rules()
	if got.BaseWeights != want.BaseWeights || got.AnteWeights != want.AnteWeights {
		t.Fatalf("weights differ from defaults")
	}
	if !reflect.DeepEqual(got.OrbValues, want.OrbValues) {
		t.Fatalf("orb table differs: %v", got.OrbValues)
	}
	for i := range got.Paytable {
		if len(got.Paytable[i]) != len(want.Paytable[i]) {
			t.Fatalf("%s: bracket count differs", engine.Symbol(i))
		}
		for j := range got.Paytable[i] {
			g, w := got.Paytable[i][j], want.Paytable[i][j]
			if g.Count != w.Count || !g.Payout.Equal(w.Payout) {
				t.Fatalf("%s bracket %d: %v != %v", engine.Symbol(i), j, g, w)
			}
		}
	}
	if !cfg.AnteFactor().Equal(def.AnteFactor()) || !cfg.MinBet().Equal(def.MinBet()) || !cfg.MaxBet().Equal(def.MaxBet()) {
		t.Fatalf("bet limits differ from defaults")
	}
	gotBonus, wantBonus := cfg.BonusRules(), def.BonusRules()
	if !gotBonus.MultiplierStep.Equal(wantBonus.MultiplierStep) || !gotBonus.MultiplierCap.Equal(wantBonus.MultiplierCap) || gotBonus.RetriggerSpins != wantBonus.RetriggerSpins {
		t.Fatalf("bonus rules differ: %+v", cfg.BonusRules())
	}
	if _, err := engine.New(got); err != nil {
		t.Fatalf("engine rejects config rules: %v", err)
	}
}

func TestParseSlotConfigErrors(t *testing.T) {
	valid := `
slot:
  currency: USD
  min_bet: "1"
  max_bet: "10"
  ante_factor: "1.25"
  max_win_multiplier: "100"
  min_cluster: 8
  scatters_for_free_spins: 4
  free_spins: 10
  retrigger_spins: 5
  bonus_multiplier_step: "0.05"
  bonus_multiplier_cap: "20"
  weights: { banana: 1, scatter: 1 }
  ante_weights: { banana: 1 }
  orb_values: [ { value: 2, weight: 1 } ]
  paytable:
    banana: { 8: "1" }
    grapes: { 8: "1" }
    watermelon: { 8: "1" }
    plum: { 8: "1" }
    apple: { 8: "1" }
    blue_candy: { 8: "1" }
    green_candy: { 8: "1" }
    purple_candy: { 8: "1" }
    red_heart: { 8: "1" }
`
	cfg, err := ParseSlotConfig([]byte(valid))
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if cfg.Rules().MaxCascades != 50 {
		t.Fatalf("max cascades must default to 50, got %d", cfg.Rules().MaxCascades)
	}

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr string
	}{
		{"unknown symbol", "banana: 1, scatter", "cherry: 1, scatter", "unknown symbol"},
		{"bad decimal", `min_bet: "1"`, `min_bet: "one"`, "min_bet"},
		{"inverted bet range", `max_bet: "10"`, `max_bet: "0.5"`, "bet range"},
		{"ante below one", `ante_factor: "1.25"`, `ante_factor: "0.9"`, "ante factor"},
		{"scatter pays", `red_heart: { 8: "1" }`, `scatter: { 8: "1" }`, "cannot have pay entries"},
		{"missing currency", "currency: USD", "currency: \"\"", "currency"},
	}
	for _, tc := range tests {
		_, err := ParseSlotConfig([]byte(strings.Replace(valid, tc.from, tc.to, 1)))
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestStorageConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("MEMORY_WALLET_BALANCE", "250.50")
	cfg, err := NewStorageConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend() != BackendMemory || cfg.MemoryWalletBalance().String() != "250.5" {
		t.Fatalf("unexpected storage config %s %s", cfg.Backend(), cfg.MemoryWalletBalance())
	}

	t.Setenv("STORAGE_BACKEND", "cassandra")
	if _, err := NewStorageConfig(); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

func TestHTTPConfigDefaults(t *testing.T) {
	cfg, err := NewHTTPConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}
