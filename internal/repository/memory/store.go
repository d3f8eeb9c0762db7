// Package memory - хранилище в памяти процесса для локального запуска и тестов.
// Транзакция берет один мьютекс на все хранилище и откатывает изменения при ошибке,
// поэтому "блокировка строки" здесь - просто нахождение внутри Do.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

type txKey struct{}

type walletKey struct {
	playerID int64
	currency string
}

type data struct {
	wallets         map[walletKey]model.Wallet
	transactions    []model.LedgerTransaction
	refs            map[string]struct{}
	entries         []model.LedgerEntry
	seeds           map[uuid.UUID]model.SeedPair
	activeSeed      map[int64]uuid.UUID
	sessions        map[uuid.UUID]model.FreeSpinSession
	sessionByPlayer map[int64]uuid.UUID
	rounds          []model.Round
}

func (d data) clone() data {
	return data{
		wallets:         maps.Clone(d.wallets),
		transactions:    slices.Clone(d.transactions),
		refs:            maps.Clone(d.refs),
		entries:         slices.Clone(d.entries),
		seeds:           maps.Clone(d.seeds),
		activeSeed:      maps.Clone(d.activeSeed),
		sessions:        maps.Clone(d.sessions),
		sessionByPlayer: maps.Clone(d.sessionByPlayer),
		rounds:          slices.Clone(d.rounds),
	}
}

type Store struct {
	mu sync.Mutex
	d  data

	// defaultBalance - если задан, кошелек создается при первом обращении
	defaultBalance *decimal.Decimal
}

type Option func(*Store)

// WithDefaultBalance - автоматически заводить кошельки с указанным балансом
func WithDefaultBalance(balance decimal.Decimal) Option {
	return func(s *Store) {
		s.defaultBalance = &balance
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		d: data{
			wallets:         make(map[walletKey]model.Wallet),
			refs:            make(map[string]struct{}),
			seeds:           make(map[uuid.UUID]model.SeedPair),
			activeSeed:      make(map[int64]uuid.UUID),
			sessions:        make(map[uuid.UUID]model.FreeSpinSession),
			sessionByPlayer: make(map[int64]uuid.UUID),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do - транзакция. Вложенный вызов с контекстом транзакции выполняется в ней же.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	committed := false
	// паника внутри fn тоже откатывает изменения, дальше она летит как есть
	defer func() {
		if !committed {
			s.d = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// run выполняет одиночную операцию: внутри транзакции мьютекс уже взят
func (s *Store) run(ctx context.Context, fn func() error) error {
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// SetWallet заводит или перезаписывает кошелек
func (s *Store) SetWallet(playerID int64, currency string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.wallets[walletKey{playerID, currency}] = model.Wallet{
		PlayerID:      playerID,
		Currency:      currency,
		Balance:       balance,
		LockedBalance: decimal.Zero,
	}
}

// Transactions - копия журнала транзакций игрока
func (s *Store) Transactions(playerID int64) []model.LedgerTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.LedgerTransaction
	for _, tx := range s.d.transactions {
		if tx.PlayerID == playerID {
			out = append(out, tx)
		}
	}
	return out
}

// Entries - проводки по транзакции
func (s *Store) Entries(transactionID uuid.UUID) []model.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.LedgerEntry
	for _, e := range s.d.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out
}
