package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

// State - баланс, коммит текущего сида и активная сессия.
// При первом обращении создает пару сидов, чтобы хэш был известен до первой ставки.
func (s *serv) State(ctx context.Context, playerID int64, currency string) (*model.PlayerState, error) {
	const op = "slot.State"

	if playerID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidPlayer)
	}
	cur, err := s.currency(currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var state *model.PlayerState
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		pair, err := s.lockSeedPair(txCtx, playerID)
		if err != nil {
			return err
		}

		state = &model.PlayerState{
			PlayerID:       playerID,
			ServerSeedHash: pair.ServerSeedHash,
			ClientSeed:     pair.ClientSeed,
			Nonce:          pair.Nonce,
		}

		wallet, err := s.ledger.Balance(txCtx, playerID, cur)
		switch {
		case err == nil:
			state.Wallet = *wallet
		case errors.Is(err, model.ErrWalletNotFound):
			state.Wallet = model.Wallet{PlayerID: playerID, Currency: cur, Balance: decimal.Zero, LockedBalance: decimal.Zero}
		default:
			return err
		}

		session, err := s.freeSpinRepo.GetByPlayer(txCtx, playerID)
		switch {
		case err == nil:
			state.Session = session
			// во время бонуса следующий спин идет по курсору сессии
			state.Nonce = session.NonceCursor
		case errors.Is(err, model.ErrSessionNotFound):
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return state, nil
}
