package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

type walletRepo struct{ s *Store }

func NewWalletRepository(s *Store) repository.WalletRepository { return &walletRepo{s: s} }

func (r *walletRepo) GetWallet(ctx context.Context, playerID int64, currency string) (*model.Wallet, error) {
	var w model.Wallet
	err := r.s.run(ctx, func() error {
		got, ok := r.s.d.wallets[walletKey{playerID, currency}]
		if !ok {
			if r.s.defaultBalance == nil {
				return model.ErrWalletNotFound
			}
			got = model.Wallet{
				PlayerID:      playerID,
				Currency:      currency,
				Balance:       *r.s.defaultBalance,
				LockedBalance: decimal.Zero,
				UpdatedAt:     time.Now().UTC(),
			}
			r.s.d.wallets[walletKey{playerID, currency}] = got
		}
		w = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepo) LockWallet(ctx context.Context, playerID int64, currency string) (*model.Wallet, error) {
	return r.GetWallet(ctx, playerID, currency)
}

func (r *walletRepo) UpdateBalance(ctx context.Context, playerID int64, currency string, balance decimal.Decimal) error {
	return r.s.run(ctx, func() error {
		k := walletKey{playerID, currency}
		w, ok := r.s.d.wallets[k]
		if !ok {
			return model.ErrWalletNotFound
		}
		if balance.IsNegative() {
			return model.ErrInvariant
		}
		w.Balance = balance
		w.UpdatedAt = time.Now().UTC()
		r.s.d.wallets[k] = w
		return nil
	})
}

type ledgerRepo struct{ s *Store }

func NewLedgerRepository(s *Store) repository.LedgerRepository { return &ledgerRepo{s: s} }

func (r *ledgerRepo) ExistsByExternalRef(ctx context.Context, externalRef string) (bool, error) {
	var exists bool
	err := r.s.run(ctx, func() error {
		_, exists = r.s.d.refs[externalRef]
		return nil
	})
	return exists, err
}

func (r *ledgerRepo) CreateTransaction(ctx context.Context, tx *model.LedgerTransaction, entries []model.LedgerEntry) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.d.refs[tx.ExternalRef]; ok {
			return model.ErrDuplicateSettlement
		}
		r.s.d.refs[tx.ExternalRef] = struct{}{}
		r.s.d.transactions = append(r.s.d.transactions, *tx)
		r.s.d.entries = append(r.s.d.entries, entries...)
		return nil
	})
}

type seedRepo struct{ s *Store }

func NewSeedRepository(s *Store) repository.SeedRepository { return &seedRepo{s: s} }

func (r *seedRepo) LockOrCreate(ctx context.Context, candidate *model.SeedPair) (*model.SeedPair, error) {
	var p model.SeedPair
	err := r.s.run(ctx, func() error {
		if id, ok := r.s.d.activeSeed[candidate.PlayerID]; ok {
			p = r.s.d.seeds[id]
			return nil
		}
		p = *candidate
		r.s.d.seeds[p.ID] = p
		r.s.d.activeSeed[p.PlayerID] = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *seedRepo) LockActive(ctx context.Context, playerID int64) (*model.SeedPair, error) {
	return r.GetActive(ctx, playerID)
}

func (r *seedRepo) GetActive(ctx context.Context, playerID int64) (*model.SeedPair, error) {
	var p model.SeedPair
	err := r.s.run(ctx, func() error {
		id, ok := r.s.d.activeSeed[playerID]
		if !ok {
			return model.ErrSeedNotFound
		}
		p = r.s.d.seeds[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *seedRepo) Create(ctx context.Context, pair *model.SeedPair) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.d.activeSeed[pair.PlayerID]; ok {
			return model.ErrInvariant
		}
		r.s.d.seeds[pair.ID] = *pair
		r.s.d.activeSeed[pair.PlayerID] = pair.ID
		return nil
	})
}

func (r *seedRepo) SetNonce(ctx context.Context, id uuid.UUID, nonce uint64) error {
	return r.s.run(ctx, func() error {
		p, ok := r.s.d.seeds[id]
		if !ok || p.Nonce > nonce {
			return model.ErrInvariant
		}
		p.Nonce = nonce
		r.s.d.seeds[id] = p
		return nil
	})
}

func (r *seedRepo) Reveal(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.s.run(ctx, func() error {
		p, ok := r.s.d.seeds[id]
		if !ok || p.RevealedAt != nil {
			return model.ErrSeedNotFound
		}
		p.RevealedAt = &at
		r.s.d.seeds[id] = p
		delete(r.s.d.activeSeed, p.PlayerID)
		return nil
	})
}

type freeSpinRepo struct{ s *Store }

func NewFreeSpinRepository(s *Store) repository.FreeSpinRepository { return &freeSpinRepo{s: s} }

func (r *freeSpinRepo) GetByPlayer(ctx context.Context, playerID int64) (*model.FreeSpinSession, error) {
	var sess model.FreeSpinSession
	err := r.s.run(ctx, func() error {
		id, ok := r.s.d.sessionByPlayer[playerID]
		if !ok {
			return model.ErrSessionNotFound
		}
		sess = r.s.d.sessions[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *freeSpinRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.FreeSpinSession, error) {
	var sess model.FreeSpinSession
	err := r.s.run(ctx, func() error {
		got, ok := r.s.d.sessions[id]
		if !ok {
			return model.ErrSessionNotFound
		}
		sess = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *freeSpinRepo) Create(ctx context.Context, session *model.FreeSpinSession) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.d.sessionByPlayer[session.PlayerID]; ok {
			return model.ErrSessionActive
		}
		r.s.d.sessions[session.ID] = *session
		r.s.d.sessionByPlayer[session.PlayerID] = session.ID
		return nil
	})
}

func (r *freeSpinRepo) Update(ctx context.Context, session *model.FreeSpinSession) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.d.sessions[session.ID]; !ok {
			return model.ErrSessionNotFound
		}
		r.s.d.sessions[session.ID] = *session
		return nil
	})
}

func (r *freeSpinRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.run(ctx, func() error {
		sess, ok := r.s.d.sessions[id]
		if !ok {
			return model.ErrSessionNotFound
		}
		delete(r.s.d.sessions, id)
		delete(r.s.d.sessionByPlayer, sess.PlayerID)
		return nil
	})
}

type roundRepo struct{ s *Store }

func NewRoundRepository(s *Store) repository.RoundRepository { return &roundRepo{s: s} }

func (r *roundRepo) Create(ctx context.Context, round *model.Round) error {
	return r.s.run(ctx, func() error {
		r.s.d.rounds = append(r.s.d.rounds, *round)
		return nil
	})
}

func (r *roundRepo) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]model.Round, error) {
	var out []model.Round
	err := r.s.run(ctx, func() error {
		// раунды добавляются по порядку, идем с конца
		for i := len(r.s.d.rounds) - 1; i >= 0 && len(out) < limit; i-- {
			if r.s.d.rounds[i].PlayerID == playerID {
				out = append(out, r.s.d.rounds[i])
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
