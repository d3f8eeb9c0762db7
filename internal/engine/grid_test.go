package engine

import (
	"testing"

	"slot_backend/pkg/provably"
)

func TestWeightedPick(t *testing.T) {
	w := newWeighted([]int{1, 2, 3})
	tests := []struct {
		value uint32
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{5, 2},
		{6, 0},
		{13, 1},
	}
	for _, tc := range tests {
		if got := w.pick(tc.value); got != tc.want {
			t.Fatalf("pick(%d) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestGenerateProperties(t *testing.T) {
	e := MustNew(DefaultRules())
	orbValues := map[int]bool{}
	for _, o := range e.Rules().OrbValues {
		orbValues[o.Value] = true
	}

	for _, ante := range []bool{false, true} {
		for nonce := uint64(0); nonce < 200; nonce++ {
			g := e.Generate(provably.NewStream(seedAt(nonce)), ante)
			if len(g) != Columns*Rows {
				t.Fatalf("grid has %d cells", len(g))
			}
			for pos, c := range g {
				if !c.Symbol.Valid() {
					t.Fatalf("nonce %d pos %d: invalid symbol %d", nonce, pos, c.Symbol)
				}
				if c.Symbol == Orb && !orbValues[c.Multiplier] {
					t.Fatalf("nonce %d pos %d: orb value %d not in table", nonce, pos, c.Multiplier)
				}
				if c.Symbol != Orb && c.Multiplier != 0 {
					t.Fatalf("nonce %d pos %d: %s carries multiplier %d", nonce, pos, c.Symbol, c.Multiplier)
				}
			}
		}
	}
}

func TestAnteSwitchesWeightTable(t *testing.T) {
	e := MustNew(rulesWith(only(Banana), only(Scatter)))

	base := e.Generate(provably.NewStream(seedAt(1)), false)
	if base.Count(Banana) != GridSize {
		t.Fatalf("base table must only produce bananas, got %d", base.Count(Banana))
	}
	ante := e.Generate(provably.NewStream(seedAt(1)), true)
	if ante.Count(Scatter) != GridSize {
		t.Fatalf("ante table must only produce scatters, got %d", ante.Count(Scatter))
	}
}

func TestOrbConsumesSecondIndex(t *testing.T) {
	e := MustNew(rulesWith(only(Orb), only(Orb)))
	st := provably.NewStream(seedAt(3))
	g := e.Generate(st, false)
	if st.Index() != 2*GridSize {
		t.Fatalf("expected %d draws, got %d", 2*GridSize, st.Index())
	}
	if len(g.Orbs()) != GridSize {
		t.Fatalf("expected every cell to be an orb")
	}
}
