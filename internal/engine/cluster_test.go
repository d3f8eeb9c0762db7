package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

// filled - поле из скаттеров, на первые позиции кладем заданные символы
func filled(groups ...struct {
	sym Symbol
	n   int
}) Grid {
	var g Grid
	for i := range g {
		g[i] = Cell{Symbol: Scatter}
	}
	pos := 0
	for _, gr := range groups {
		for i := 0; i < gr.n; i++ {
			g[pos] = Cell{Symbol: gr.sym}
			pos++
		}
	}
	return g
}

type group = struct {
	sym Symbol
	n   int
}

func TestFindWins(t *testing.T) {
	e := MustNew(DefaultRules())

	tests := []struct {
		name    string
		grid    Grid
		symbols []Symbol
		payouts []string
	}{
		{name: "min cluster", grid: filled(group{Banana, 8}), symbols: []Symbol{Banana}, payouts: []string{"0.4"}},
		{name: "mid bracket", grid: filled(group{PurpleCandy, 11}), symbols: []Symbol{PurpleCandy}, payouts: []string{"15"}},
		{name: "clamped to top bracket", grid: filled(group{RedHeart, 13}), symbols: []Symbol{RedHeart}, payouts: []string{"80"}},
		{name: "below threshold", grid: filled(group{Apple, 7})},
		{name: "only scatters", grid: filled()},
		{
			name:    "two symbols",
			grid:    filled(group{Grapes, 9}, group{Banana, 8}),
			symbols: []Symbol{Banana, Grapes},
			payouts: []string{"0.4", "0.6"},
		},
	}

	for _, tc := range tests {
		wins := e.FindWins(tc.grid)
		if len(wins) != len(tc.symbols) {
			t.Fatalf("%s: got %d wins, want %d", tc.name, len(wins), len(tc.symbols))
		}
		for i, w := range wins {
			if w.Symbol != tc.symbols[i] {
				t.Fatalf("%s: win %d symbol %s, want %s", tc.name, i, w.Symbol, tc.symbols[i])
			}
			if !w.Payout.Equal(decimal.RequireFromString(tc.payouts[i])) {
				t.Fatalf("%s: win %d payout %s, want %s", tc.name, i, w.Payout, tc.payouts[i])
			}
			if len(w.Positions) != w.Count {
				t.Fatalf("%s: positions %d != count %d", tc.name, len(w.Positions), w.Count)
			}
		}
	}
}

func TestOrbsNeverWin(t *testing.T) {
	e := MustNew(DefaultRules())
	var g Grid
	for i := range g {
		g[i] = Cell{Symbol: Orb, Multiplier: 2}
	}
	if wins := e.FindWins(g); len(wins) != 0 {
		t.Fatalf("orbs must not form clusters, got %+v", wins)
	}
}

func TestPaytablePayout(t *testing.T) {
	p := DefaultRules().Paytable
	tests := []struct {
		sym   Symbol
		count int
		want  string
		ok    bool
	}{
		{Banana, 7, "0", false},
		{Banana, 8, "0.4", true},
		{Banana, 9, "0.4", true},
		{Banana, 10, "1.2", true},
		{Banana, 30, "3", true},
		{RedHeart, 12, "80", true},
		{Scatter, 30, "0", false},
		{Orb, 30, "0", false},
		{Symbol(200), 30, "0", false},
	}
	for _, tc := range tests {
		got, ok := p.Payout(tc.sym, tc.count)
		if ok != tc.ok || !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Payout(%s, %d) = %s,%v want %s,%v", tc.sym, tc.count, got, ok, tc.want, tc.ok)
		}
	}
}
