package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testBonusRules() BonusRules {
	return BonusRules{
		RetriggerSpins:   5,
		MultiplierStep:   decimal.RequireFromString("0.05"),
		MultiplierCap:    decimal.NewFromInt(20),
		MaxWinMultiplier: decimal.NewFromInt(5000),
	}
}

func TestBonusFactor(t *testing.T) {
	r := testBonusRules()
	tests := []struct {
		cumulative int
		want       string
	}{
		{0, "1"},
		{10, "1.5"},
		{100, "6"},
		{380, "20"},
		{10000, "20"},
	}
	for _, tc := range tests {
		if got := r.Factor(tc.cumulative); !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Factor(%d) = %s, want %s", tc.cumulative, got, tc.want)
		}
	}
}

func TestWinAmountRoundsDown(t *testing.T) {
	got := WinAmount(decimal.RequireFromString("0.25"), decimal.RequireFromString("0.30"))
	if !got.Equal(decimal.RequireFromString("0.07")) {
		t.Fatalf("expected 0.07, got %s", got)
	}
	capped := CapWin(decimal.NewFromInt(900), decimal.NewFromInt(1), decimal.NewFromInt(500))
	if !capped.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected cap 500, got %s", capped)
	}
}

func TestBonusAccumulatesOrbs(t *testing.T) {
	rules := rulesWith(only(Orb), only(Orb))
	rules.OrbValues = []OrbWeight{{Value: 2, Weight: 1}}
	e := MustNew(rules)

	state := NewBonusState(seedAt(40), false, decimal.NewFromInt(1), 3)
	for i := 0; i < 3; i++ {
		spin, err := e.PlayBonusSpin(&state, testBonusRules())
		if err != nil {
			t.Fatalf("spin %d: %v", i, err)
		}
		if spin.Nonce != uint64(40+i) {
			t.Fatalf("spin %d used nonce %d", i, spin.Nonce)
		}
		if !spin.Win.IsZero() {
			t.Fatalf("orb-only spin must not win, got %s", spin.Win)
		}
		if spin.Finished != (i == 2) {
			t.Fatalf("spin %d: finished=%v", i, spin.Finished)
		}
	}
	if state.CumulativeMultiplier != 3*GridSize*2 {
		t.Fatalf("cumulative multiplier %d", state.CumulativeMultiplier)
	}
	if state.NonceCursor != 43 {
		t.Fatalf("cursor %d, want 43", state.NonceCursor)
	}
	if _, err := e.PlayBonusSpin(&state, testBonusRules()); !errors.Is(err, ErrBonusFinished) {
		t.Fatalf("expected ErrBonusFinished, got %v", err)
	}
}

func TestBonusRetrigger(t *testing.T) {
	e := MustNew(rulesWith(only(Scatter), only(Scatter)))
	state := NewBonusState(seedAt(0), false, decimal.NewFromInt(1), 10)

	spin, err := e.PlayBonusSpin(&state, testBonusRules())
	if err != nil {
		t.Fatal(err)
	}
	if !spin.Retriggered {
		t.Fatalf("expected retrigger")
	}
	if state.SpinsRemaining != 14 || state.TotalSpins != 15 {
		t.Fatalf("remaining %d total %d", state.SpinsRemaining, state.TotalSpins)
	}
}

func TestBonusMaxWinEndsRound(t *testing.T) {
	e := MustNew(DefaultRules())

	nonce := uint64(0)
	found := false
	for ; nonce < 500; nonce++ {
		out, err := e.ExecuteSpin(seedAt(nonce), false)
		if err != nil {
			t.Fatal(err)
		}
		if out.IsWin() {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("no winning nonce in range")
	}

	rules := testBonusRules()
	rules.MaxWinMultiplier = decimal.RequireFromString("0.01")
	state := NewBonusState(seedAt(nonce), false, decimal.NewFromInt(1), 10)

	spin, err := e.PlayBonusSpin(&state, rules)
	if err != nil {
		t.Fatal(err)
	}
	if !spin.MaxWinReached || !spin.Finished || state.SpinsRemaining != 0 {
		t.Fatalf("max win must close the round: %+v remaining=%d", spin, state.SpinsRemaining)
	}
	if !state.TotalWin.Equal(decimal.RequireFromString("0.01")) || !spin.Win.Equal(state.TotalWin) {
		t.Fatalf("total %s win %s", state.TotalWin, spin.Win)
	}
}
