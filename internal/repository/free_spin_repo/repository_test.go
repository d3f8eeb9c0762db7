package free_spin_repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"slot_backend/internal/engine"
	"slot_backend/internal/model"
	"slot_backend/internal/repository/pgtest"
	"slot_backend/pkg/provably"
)

func newSession(playerID int64) *model.FreeSpinSession {
	seed := provably.Seed{ServerSeed: "server", ClientSeed: "client", Nonce: 7}
	st := engine.NewBonusState(seed, true, decimal.RequireFromString("0.2"), 10)
	return model.NewFreeSpinSession(playerID, "USD", provably.HashServerSeed(seed.ServerSeed), st)
}

func TestFreeSpinRepositoryLifecycle(t *testing.T) {
	pool := pgtest.Pool(t)
	trm := pgtest.Manager(t, pool)
	repo := NewFreeSpinRepository(pool)
	ctx := context.Background()
	playerID := pgtest.PlayerID()

	if _, err := repo.GetByPlayer(ctx, playerID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	session := newSession(playerID)
	if err := repo.Create(ctx, session); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, newSession(playerID)); !errors.Is(err, model.ErrSessionActive) {
		t.Fatalf("second session: expected ErrSessionActive, got %v", err)
	}

	err := trm.Do(ctx, func(txCtx context.Context) error {
		locked, err := repo.LockByID(txCtx, session.ID)
		if err != nil {
			return err
		}
		locked.SpinsRemaining = 4
		locked.TotalSpins = 11
		locked.CumulativeMultiplier = 12
		locked.TotalWin = decimal.RequireFromString("3.75")
		locked.NonceCursor = 18
		locked.UpdatedAt = time.Now().UTC()
		return repo.Update(txCtx, locked)
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByPlayer(ctx, playerID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != session.ID || !got.Ante || !got.Bet.Equal(decimal.RequireFromString("0.2")) {
		t.Fatalf("frozen fields changed: %+v", got)
	}
	if got.SpinsRemaining != 4 || got.TotalSpins != 11 || got.CumulativeMultiplier != 12 || got.NonceCursor != 18 {
		t.Fatalf("progress not stored: %+v", got)
	}
	if !got.TotalWin.Equal(decimal.RequireFromString("3.75")) {
		t.Fatalf("expected total win 3.75, got %s", got.TotalWin)
	}
	if got.ServerSeed != "server" || got.ClientSeed != "client" {
		t.Fatalf("seeds not stored: %+v", got)
	}

	if err = repo.Delete(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if err = repo.Delete(ctx, session.ID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("second delete: expected ErrSessionNotFound, got %v", err)
	}
	if err = repo.Update(ctx, session); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("update after delete: expected ErrSessionNotFound, got %v", err)
	}
	if _, err = repo.LockByID(ctx, session.ID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("lock after delete: expected ErrSessionNotFound, got %v", err)
	}
}
