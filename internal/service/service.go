package service

import (
	"context"

	"slot_backend/internal/model"
)

type SlotService interface {
	Spin(ctx context.Context, req model.SpinRequest) (*model.SpinResult, error)
	FreeSpin(ctx context.Context, playerID int64, sessionID string) (*model.FreeSpinResult, error)
	State(ctx context.Context, playerID int64, currency string) (*model.PlayerState, error)
	Verify(ctx context.Context, req model.VerifyRequest) (*model.VerifyResult, error)
	Paytable() model.Paytable
	RotateSeed(ctx context.Context, playerID int64, clientSeed string) (*model.SeedRotation, error)
	History(ctx context.Context, playerID int64, limit int) ([]model.Round, error)
	Stats() model.GameStats
}

type LedgerService interface {
	// Settle атомарно списывает Debit и зачисляет Credit. Внутри внешней транзакции присоединяется к ней.
	Settle(ctx context.Context, req model.SettleRequest) (*model.SettleResult, error)
	Balance(ctx context.Context, playerID int64, currency string) (*model.Wallet, error)
}
