package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slot_backend/internal/model"
	"slot_backend/internal/repository/ledger_repo"
	"slot_backend/internal/repository/pgtest"
	"slot_backend/internal/repository/wallet_repo"
)

// Те же гарантии, что и в памяти, но на строковых блокировках Postgres
func TestSettlePostgresConcurrentSingleBet(t *testing.T) {
	const n = 16
	pool := pgtest.Pool(t)
	playerID := pgtest.PlayerID()
	pgtest.Wallet(t, pool, playerID, "USD", d("1"))

	l := NewLedgerService(pgtest.Manager(t, pool), wallet_repo.NewWalletRepository(pool),
		ledger_repo.NewLedgerRepository(pool), d("5000"), zap.NewNop())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		declined int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := spinReq("spin:"+uuid.NewString()+":0", "1", "0")
			req.PlayerID = playerID
			_, err := l.Settle(context.Background(), req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, model.ErrInsufficientFunds):
				declined++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 || declined != n-1 {
		t.Fatalf("success=%d declined=%d", success, declined)
	}
	w, err := l.Balance(context.Background(), playerID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Balance.IsZero() {
		t.Fatalf("balance must be exactly zero, got %s", w.Balance)
	}
}

func TestSettlePostgresDuplicateRef(t *testing.T) {
	pool := pgtest.Pool(t)
	playerID := pgtest.PlayerID()
	pgtest.Wallet(t, pool, playerID, "USD", d("10"))

	l := NewLedgerService(pgtest.Manager(t, pool), wallet_repo.NewWalletRepository(pool),
		ledger_repo.NewLedgerRepository(pool), d("5000"), zap.NewNop())

	req := spinReq("spin:"+uuid.NewString()+":0", "1", "3")
	req.PlayerID = playerID
	if _, err := l.Settle(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Settle(context.Background(), req); !errors.Is(err, model.ErrDuplicateSettlement) {
		t.Fatalf("expected ErrDuplicateSettlement, got %v", err)
	}

	w, err := l.Balance(context.Background(), playerID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Balance.Equal(d("12")) {
		t.Fatalf("repeat must not move the balance, got %s", w.Balance)
	}
}
