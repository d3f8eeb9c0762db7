package ledger_repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository/pgtest"
)

func newTransaction(playerID int64, ref string) (*model.LedgerTransaction, []model.LedgerEntry) {
	now := time.Now().UTC()
	amount := decimal.RequireFromString("1.5")
	tx := &model.LedgerTransaction{
		ID:            uuid.New(),
		PlayerID:      playerID,
		Currency:      "USD",
		Type:          model.TxSpin,
		Debit:         decimal.NewFromInt(1),
		Credit:        decimal.RequireFromString("2.5"),
		Amount:        amount,
		BalanceBefore: decimal.NewFromInt(10),
		BalanceAfter:  decimal.RequireFromString("11.5"),
		ExternalRef:   ref,
		Status:        model.StatusConfirmed,
		Metadata:      map[string]string{"round": "base"},
		CreatedAt:     now,
	}
	entries := []model.LedgerEntry{
		{ID: uuid.New(), TransactionID: tx.ID, Account: model.AccountWallet, PlayerID: playerID, Currency: "USD", Delta: amount, CreatedAt: now},
		{ID: uuid.New(), TransactionID: tx.ID, Account: model.AccountHouse, PlayerID: playerID, Currency: "USD", Delta: amount.Neg(), CreatedAt: now},
	}
	return tx, entries
}

func TestLedgerRepository(t *testing.T) {
	pool := pgtest.Pool(t)
	repo := NewLedgerRepository(pool)
	ctx := context.Background()
	playerID := pgtest.PlayerID()
	ref := "spin:" + uuid.NewString() + ":0"

	exists, err := repo.ExistsByExternalRef(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("fresh ref must not exist")
	}

	tx, entries := newTransaction(playerID, ref)
	if err = repo.CreateTransaction(ctx, tx, entries); err != nil {
		t.Fatal(err)
	}

	if exists, err = repo.ExistsByExternalRef(ctx, ref); err != nil || !exists {
		t.Fatalf("stored ref must exist, got %v %v", exists, err)
	}

	var sum decimal.Decimal
	if err = pool.QueryRow(ctx, "SELECT sum(delta) FROM ledger_entries WHERE transaction_id = $1", tx.ID).Scan(&sum); err != nil {
		t.Fatal(err)
	}
	if !sum.IsZero() {
		t.Fatalf("entries must balance, sum %s", sum)
	}

	dup, dupEntries := newTransaction(playerID, ref)
	if err = repo.CreateTransaction(ctx, dup, dupEntries); !errors.Is(err, model.ErrDuplicateSettlement) {
		t.Fatalf("expected ErrDuplicateSettlement, got %v", err)
	}
}
