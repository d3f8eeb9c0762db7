package wallet_repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository/pgtest"
)

func TestWalletRepository(t *testing.T) {
	pool := pgtest.Pool(t)
	trm := pgtest.Manager(t, pool)
	repo := NewWalletRepository(pool)
	ctx := context.Background()
	playerID := pgtest.PlayerID()

	if _, err := repo.GetWallet(ctx, playerID, "USD"); !errors.Is(err, model.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
	if err := repo.UpdateBalance(ctx, playerID, "USD", decimal.NewFromInt(1)); !errors.Is(err, model.ErrWalletNotFound) {
		t.Fatalf("update of a missing wallet: expected ErrWalletNotFound, got %v", err)
	}

	pgtest.Wallet(t, pool, playerID, "USD", decimal.NewFromInt(10))

	err := trm.Do(ctx, func(txCtx context.Context) error {
		w, err := repo.LockWallet(txCtx, playerID, "USD")
		if err != nil {
			return err
		}
		return repo.UpdateBalance(txCtx, playerID, "USD", w.Balance.Sub(decimal.RequireFromString("2.5")))
	})
	if err != nil {
		t.Fatal(err)
	}

	w, err := repo.GetWallet(ctx, playerID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("expected 7.5, got %s", w.Balance)
	}

	err = repo.UpdateBalance(ctx, playerID, "USD", decimal.NewFromInt(-1))
	if err == nil || errors.Is(err, model.ErrWalletNotFound) {
		t.Fatalf("negative balance must be rejected by the schema, got %v", err)
	}
}

func TestLockWalletRollsBackWithTransaction(t *testing.T) {
	pool := pgtest.Pool(t)
	trm := pgtest.Manager(t, pool)
	repo := NewWalletRepository(pool)
	ctx := context.Background()
	playerID := pgtest.PlayerID()
	pgtest.Wallet(t, pool, playerID, "EUR", decimal.NewFromInt(5))

	boom := errors.New("boom")
	err := trm.Do(ctx, func(txCtx context.Context) error {
		if _, err := repo.LockWallet(txCtx, playerID, "EUR"); err != nil {
			return err
		}
		if err := repo.UpdateBalance(txCtx, playerID, "EUR", decimal.Zero); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	w, err := repo.GetWallet(ctx, playerID, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Balance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("balance must roll back, got %s", w.Balance)
	}
}
