package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

// TxManager - граница транзакции. Вложенный Do присоединяется к внешней транзакции.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type WalletRepository interface {
	GetWallet(ctx context.Context, playerID int64, currency string) (*model.Wallet, error)
	// LockWallet берет эксклюзивную блокировку строки до конца транзакции
	LockWallet(ctx context.Context, playerID int64, currency string) (*model.Wallet, error)
	UpdateBalance(ctx context.Context, playerID int64, currency string, balance decimal.Decimal) error
}

type LedgerRepository interface {
	ExistsByExternalRef(ctx context.Context, externalRef string) (bool, error)
	// CreateTransaction пишет транзакцию и ее проводки. Повтор externalRef -> model.ErrDuplicateSettlement
	CreateTransaction(ctx context.Context, tx *model.LedgerTransaction, entries []model.LedgerEntry) error
}

type SeedRepository interface {
	// LockOrCreate блокирует активную пару игрока, при ее отсутствии сохраняет candidate
	LockOrCreate(ctx context.Context, candidate *model.SeedPair) (*model.SeedPair, error)
	LockActive(ctx context.Context, playerID int64) (*model.SeedPair, error)
	GetActive(ctx context.Context, playerID int64) (*model.SeedPair, error)
	Create(ctx context.Context, pair *model.SeedPair) error
	SetNonce(ctx context.Context, id uuid.UUID, nonce uint64) error
	Reveal(ctx context.Context, id uuid.UUID, at time.Time) error
}

type FreeSpinRepository interface {
	GetByPlayer(ctx context.Context, playerID int64) (*model.FreeSpinSession, error)
	LockByID(ctx context.Context, id uuid.UUID) (*model.FreeSpinSession, error)
	Create(ctx context.Context, session *model.FreeSpinSession) error
	Update(ctx context.Context, session *model.FreeSpinSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RoundRepository interface {
	Create(ctx context.Context, round *model.Round) error
	// ListByPlayer - последние раунды игрока, новые первыми
	ListByPlayer(ctx context.Context, playerID int64, limit int) ([]model.Round, error)
}

// HistoryCache - быстрый срез последних раундов поверх RoundRepository
type HistoryCache interface {
	Push(ctx context.Context, rounds ...model.Round) error
	// Recent возвращает false, если в кэше меньше limit записей
	Recent(ctx context.Context, playerID int64, limit int) ([]model.Round, bool, error)
}

type GameStatsRepository interface {
	UpdateState(kind model.RoundKind, stake, payout decimal.Decimal)
	Snapshot() model.GameStats
}
