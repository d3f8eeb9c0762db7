package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slot_backend/internal/engine"
	"slot_backend/pkg/provably"
)

// SeedPair - активная пара сидов игрока. ServerSeed не отдается наружу до ротации.
type SeedPair struct {
	ID             uuid.UUID
	PlayerID       int64
	ServerSeed     string
	ServerSeedHash string
	ClientSeed     string
	Nonce          uint64
	CreatedAt      time.Time
	RevealedAt     *time.Time
}

func (p SeedPair) Seed() provably.Seed {
	return provably.Seed{ServerSeed: p.ServerSeed, ClientSeed: p.ClientSeed, Nonce: p.Nonce}
}

// NewSeedPair - новая пара с nonce = 0. Пустой clientSeed заменяется случайным.
func NewSeedPair(playerID int64, clientSeed string) (*SeedPair, error) {
	serverSeed, err := provably.NewServerSeed()
	if err != nil {
		return nil, err
	}
	if clientSeed == "" {
		if clientSeed, err = provably.NewClientSeed(); err != nil {
			return nil, err
		}
	}
	return &SeedPair{
		ID:             uuid.New(),
		PlayerID:       playerID,
		ServerSeed:     serverSeed,
		ServerSeedHash: provably.HashServerSeed(serverSeed),
		ClientSeed:     clientSeed,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// FreeSpinSession - активный бонусный раунд игрока. Ставка, валюта и анте заморожены
// на момент спина, который его выдал.
type FreeSpinSession struct {
	ID                   uuid.UUID
	PlayerID             int64
	Bet                  decimal.Decimal
	Currency             string
	Ante                 bool
	SpinsRemaining       int
	TotalSpins           int
	CumulativeMultiplier int
	TotalWin             decimal.Decimal
	ServerSeed           string
	ServerSeedHash       string
	ClientSeed           string
	NonceCursor          uint64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewFreeSpinSession открывает сессию из состояния бонуса
func NewFreeSpinSession(playerID int64, currency, serverSeedHash string, st engine.BonusState) *FreeSpinSession {
	now := time.Now().UTC()
	s := &FreeSpinSession{
		ID:             uuid.New(),
		PlayerID:       playerID,
		Currency:       currency,
		ServerSeedHash: serverSeedHash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Apply(st)
	return s
}

// BonusState - состояние для движка
func (s *FreeSpinSession) BonusState() engine.BonusState {
	return engine.BonusState{
		ServerSeed:           s.ServerSeed,
		ClientSeed:           s.ClientSeed,
		NonceCursor:          s.NonceCursor,
		Ante:                 s.Ante,
		Bet:                  s.Bet,
		SpinsRemaining:       s.SpinsRemaining,
		TotalSpins:           s.TotalSpins,
		CumulativeMultiplier: s.CumulativeMultiplier,
		TotalWin:             s.TotalWin,
	}
}

// Apply переносит состояние после бонусного спина обратно в сессию
func (s *FreeSpinSession) Apply(st engine.BonusState) {
	s.ServerSeed = st.ServerSeed
	s.ClientSeed = st.ClientSeed
	s.NonceCursor = st.NonceCursor
	s.Ante = st.Ante
	s.Bet = st.Bet
	s.SpinsRemaining = st.SpinsRemaining
	s.TotalSpins = st.TotalSpins
	s.CumulativeMultiplier = st.CumulativeMultiplier
	s.TotalWin = st.TotalWin
	s.UpdatedAt = time.Now().UTC()
}

type RoundKind string

const (
	RoundBase RoundKind = "BASE"
	RoundFree RoundKind = "FREE"
)

// Round - запись истории: полный результат спина для аудита и повторной проверки
type Round struct {
	ID             uuid.UUID
	PlayerID       int64
	Kind           RoundKind
	SessionID      uuid.UUID // uuid.Nil для обычного спина
	Bet            decimal.Decimal
	Stake          decimal.Decimal
	Win            decimal.Decimal
	Currency       string
	ServerSeedHash string
	ClientSeed     string
	Nonce          uint64
	Ante           bool
	Outcome        engine.SpinOutcome
	CreatedAt      time.Time
}

type SpinRequest struct {
	PlayerID int64
	Bet      decimal.Decimal
	Ante     bool
	Currency string
}

type SpinResult struct {
	RoundID        uuid.UUID
	Outcome        engine.SpinOutcome
	Bet            decimal.Decimal
	Stake          decimal.Decimal
	Win            decimal.Decimal
	Currency       string
	Balance        decimal.Decimal
	ServerSeedHash string
	ClientSeed     string
	Nonce          uint64
	Ante           bool
	Session        *FreeSpinSession
}

type FreeSpinResult struct {
	RoundID              uuid.UUID
	SessionID            uuid.UUID
	Outcome              engine.SpinOutcome
	Nonce                uint64
	Factor               decimal.Decimal
	Win                  decimal.Decimal
	TotalWin             decimal.Decimal
	Currency             string
	SpinsRemaining       int
	TotalSpins           int
	CumulativeMultiplier int
	Retriggered          bool
	MaxWinReached        bool
	Finished             bool
	Balance              decimal.Decimal
	ServerSeedHash       string
	ClientSeed           string
}

// PlayerState - то, что игрок видит до ставки: баланс, коммит сида, активная сессия
type PlayerState struct {
	PlayerID       int64
	Wallet         Wallet
	ServerSeedHash string
	ClientSeed     string
	Nonce          uint64
	Session        *FreeSpinSession
}

type VerifyRequest struct {
	ServerSeed   string
	ClientSeed   string
	Nonce        uint64
	Ante         bool
	ExpectedHash string
}

type VerifyResult struct {
	ServerSeedHash string
	HashChecked    bool
	HashMatches    bool
	Outcome        engine.SpinOutcome
}

// SeedRotation - раскрытая старая пара и коммит новой
type SeedRotation struct {
	Revealed SeedPair
	Next     SeedPair
}

type PaytableEntry struct {
	Symbol   engine.Symbol
	Brackets []engine.Bracket
}

type Paytable struct {
	Columns              int
	Rows                 int
	MinCluster           int
	Entries              []PaytableEntry
	OrbValues            []int
	ScattersForFreeSpins int
	FreeSpinsCount       int
	RetriggerSpins       int
	MultiplierStep       decimal.Decimal
	MultiplierCap        decimal.Decimal
	MaxWinMultiplier     decimal.Decimal
	MinBet               decimal.Decimal
	MaxBet               decimal.Decimal
	AnteFactor           decimal.Decimal
	Currency             string
}
