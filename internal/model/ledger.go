package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSpin           TransactionType = "SPIN"
	TxFreeSpinPayout TransactionType = "FREE_SPIN_PAYOUT"
)

type TransactionStatus string

const StatusConfirmed TransactionStatus = "CONFIRMED"

// Account - сторона двойной записи
type Account string

const (
	AccountWallet Account = "wallet"
	AccountHouse  Account = "house"
)

// Wallet - баланс игрока в валюте. LockedBalance ведет внешний кошелек, ядро его только читает.
type Wallet struct {
	PlayerID      int64
	Currency      string
	Balance       decimal.Decimal
	LockedBalance decimal.Decimal
	UpdatedAt     time.Time
}

// LedgerTransaction - неизменяемая запись о расчете
type LedgerTransaction struct {
	ID            uuid.UUID
	PlayerID      int64
	Currency      string
	Type          TransactionType
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Amount        decimal.Decimal // Credit - Debit
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ExternalRef   string
	Status        TransactionStatus
	Metadata      map[string]string
	CreatedAt     time.Time
}

// LedgerEntry - проводка. На транзакцию две проводки, сумма Delta равна нулю.
type LedgerEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Account       Account
	PlayerID      int64
	Currency      string
	Delta         decimal.Decimal
	CreatedAt     time.Time
}

// SettleRequest - списание ставки и зачисление выигрыша одной операцией.
// Bet задает потолок зачисления: Credit <= Bet * MaxWinMultiplier.
type SettleRequest struct {
	PlayerID    int64
	Currency    string
	Type        TransactionType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Bet         decimal.Decimal
	ExternalRef string
	Metadata    map[string]string
}

type SettleResult struct {
	TransactionID uuid.UUID
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Requested     decimal.Decimal
	Credited      decimal.Decimal
	Capped        bool
}
