package stats_repo

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slot_backend/internal/model"
)

func TestUpdateStateCountsKinds(t *testing.T) {
	r := NewGameStatsRepository(96.5, zap.NewNop())

	r.UpdateState(model.RoundBase, decimal.NewFromInt(2), decimal.NewFromInt(1))
	r.UpdateState(model.RoundFree, decimal.Zero, decimal.NewFromInt(3))

	s := r.Snapshot()
	if s.TotalSpins != 2 || s.BaseSpins != 1 || s.FreeSpins != 1 {
		t.Fatalf("unexpected counters %+v", s)
	}
	if s.CurrentRTP != 200 || s.WindowRTP != 200 {
		t.Fatalf("expected rtp 200, got %v / %v", s.CurrentRTP, s.WindowRTP)
	}
	if s.DriftAlert {
		t.Fatal("drift is not checked before enough spins")
	}
}

func TestDriftAlertHysteresis(t *testing.T) {
	r := NewGameStatsRepository(96.5, zap.NewNop())
	stake := decimal.NewFromInt(1)

	for i := 0; i < minSpinsToCheck; i++ {
		r.UpdateState(model.RoundBase, stake, decimal.Zero)
	}
	s := r.Snapshot()
	if !s.DriftAlert || len(s.Alerts) != 1 || s.Alerts[0].Direction != "low" {
		t.Fatalf("expected one low alert, got %+v", s.Alerts)
	}

	normal := decimal.RequireFromString("0.965")
	for i := 0; i < windowSize; i++ {
		r.UpdateState(model.RoundBase, stake, normal)
	}
	s = r.Snapshot()
	if s.DriftAlert {
		t.Fatalf("alert must clear once the window is back on target, window rtp %v", s.WindowRTP)
	}
	if len(s.Alerts) != 1 {
		t.Fatalf("alert history must be kept, got %d", len(s.Alerts))
	}
}

func TestWindowEvictsOldestSpins(t *testing.T) {
	r := NewGameStatsRepository(96.5, zap.NewNop())
	stake := decimal.NewFromInt(1)

	for i := 0; i < windowSize; i++ {
		r.UpdateState(model.RoundBase, stake, decimal.NewFromInt(2))
	}
	for i := 0; i < windowSize; i++ {
		r.UpdateState(model.RoundBase, stake, stake)
	}

	s := r.Snapshot()
	if s.WindowRTP != 100 {
		t.Fatalf("window must only hold the last %d spins, rtp %v", windowSize, s.WindowRTP)
	}
	if s.CurrentRTP != 150 {
		t.Fatalf("lifetime rtp must keep every spin, got %v", s.CurrentRTP)
	}
}
