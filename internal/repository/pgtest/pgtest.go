// Package pgtest - стенд для интеграционных тестов на Postgres.
// База берется из PG_DSN, без нее тесты пропускаются.
package pgtest

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// migrationLock - ключ advisory lock: пакеты тестов идут параллельно и мигрируют одну базу
const migrationLock = 7331001

// Pool - пул к PG_DSN с примененной схемой из migrations/
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err = migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, file, _, _ := runtime.Caller(0)
	schema, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", "001_init.sql"))
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(migrationLock)); err != nil {
		return err
	}
	// без аргументов pgx шлет simple protocol, несколько выражений за раз допустимы
	if _, err = tx.Exec(ctx, string(schema)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Manager - trm поверх пула, как в приложении
func Manager(t *testing.T, pool *pgxpool.Pool) *manager.Manager {
	t.Helper()
	m, err := manager.New(trmpgx.NewDefaultFactory(pool))
	if err != nil {
		t.Fatalf("tx manager: %v", err)
	}
	return m
}

// PlayerID - случайный игрок, чтобы параллельные тесты не делили строки
func PlayerID() int64 {
	return rand.Int64N(1<<40) + 1
}

// Wallet заводит кошелек напрямую в таблице
func Wallet(t *testing.T, pool *pgxpool.Pool, playerID int64, currency string, balance decimal.Decimal) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO wallets (player_id, currency, balance) VALUES ($1, $2, $3)",
		playerID, currency, balance,
	)
	if err != nil {
		t.Fatalf("insert wallet: %v", err)
	}
}
