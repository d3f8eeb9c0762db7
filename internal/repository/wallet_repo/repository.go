package wallet_repo

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table            = "wallets"
	colPlayerID      = "player_id"
	colCurrency      = "currency"
	colBalance       = "balance"
	colLockedBalance = "locked_balance"
	colUpdatedAt     = "updated_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewWalletRepository(dbc *pgxpool.Pool) repository.WalletRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetWallet - баланс игрока в валюте без блокировки
func (r *repo) GetWallet(ctx context.Context, playerID int64, currency string) (*model.Wallet, error) {
	return r.get(ctx, playerID, currency, false)
}

// LockWallet - SELECT ... FOR UPDATE. Работает только внутри транзакции,
// блокировка держится до коммита или отката.
func (r *repo) LockWallet(ctx context.Context, playerID int64, currency string) (*model.Wallet, error) {
	return r.get(ctx, playerID, currency, true)
}

func (r *repo) get(ctx context.Context, playerID int64, currency string, lock bool) (*model.Wallet, error) {
	query := sq.Select(colBalance, colLockedBalance, colUpdatedAt).
		From(table).
		Where(sq.Eq{colPlayerID: playerID, colCurrency: currency}).
		PlaceholderFormat(sq.Dollar)
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	w := model.Wallet{PlayerID: playerID, Currency: currency}
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&w.Balance, &w.LockedBalance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

// UpdateBalance - записывает новый баланс. Отрицательный баланс отсекает CHECK в схеме.
func (r *repo) UpdateBalance(ctx context.Context, playerID int64, currency string, balance decimal.Decimal) error {
	query := sq.Update(table).
		Set(colBalance, balance).
		Set(colUpdatedAt, time.Now().UTC()).
		Where(sq.Eq{colPlayerID: playerID, colCurrency: currency}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrWalletNotFound
	}
	return nil
}
