package slot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slot_backend/internal/engine"
	"slot_backend/internal/model"
)

func freeSpinRef(sessionID uuid.UUID) string {
	return "freespin:" + sessionID.String()
}

// FreeSpin - один бонусный спин. Последний спин выплачивает весь TotalWin одной
// транзакцией (списание 0), переносит курсор nonce в пару сидов и удаляет сессию.
func (s *serv) FreeSpin(ctx context.Context, playerID int64, sessionID string) (*model.FreeSpinResult, error) {
	const op = "slot.FreeSpin"

	if playerID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidPlayer)
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidSessionID)
	}

	var (
		res     *model.FreeSpinResult
		round   model.Round
		settled *model.SettleResult
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		pair, err := s.seedRepo.LockActive(txCtx, playerID)
		if err != nil {
			if errors.Is(err, model.ErrSeedNotFound) {
				return model.ErrSessionNotFound
			}
			return err
		}

		session, err := s.freeSpinRepo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		// чужая сессия для игрока не существует
		if session.PlayerID != playerID {
			return model.ErrSessionNotFound
		}
		if session.SpinsRemaining <= 0 {
			return model.ErrSessionExhausted
		}
		if session.ServerSeedHash != pair.ServerSeedHash {
			return s.invariant(fmt.Errorf("session %s bound to another seed pair", session.ID), playerID, session.NonceCursor)
		}

		st := session.BonusState()
		spin, err := s.engine.PlayBonusSpin(&st, s.bonusRules)
		if err != nil {
			if errors.Is(err, engine.ErrBonusFinished) {
				return model.ErrSessionExhausted
			}
			return s.invariant(err, playerID, session.NonceCursor)
		}
		session.Apply(st)

		round = model.Round{
			ID:             uuid.New(),
			PlayerID:       playerID,
			Kind:           model.RoundFree,
			SessionID:      session.ID,
			Bet:            session.Bet,
			Stake:          decimal.Zero,
			Win:            spin.Win,
			Currency:       session.Currency,
			ServerSeedHash: session.ServerSeedHash,
			ClientSeed:     session.ClientSeed,
			Nonce:          spin.Nonce,
			Ante:           session.Ante,
			Outcome:        spin.Outcome,
			CreatedAt:      time.Now().UTC(),
		}
		if err = s.roundRepo.Create(txCtx, &round); err != nil {
			return err
		}

		res = &model.FreeSpinResult{
			RoundID:              round.ID,
			SessionID:            session.ID,
			Outcome:              spin.Outcome,
			Nonce:                spin.Nonce,
			Factor:               spin.Factor,
			Win:                  spin.Win,
			TotalWin:             session.TotalWin,
			Currency:             session.Currency,
			SpinsRemaining:       session.SpinsRemaining,
			TotalSpins:           session.TotalSpins,
			CumulativeMultiplier: session.CumulativeMultiplier,
			Retriggered:          spin.Retriggered,
			MaxWinReached:        spin.MaxWinReached,
			Finished:             spin.Finished,
			ServerSeedHash:       session.ServerSeedHash,
			ClientSeed:           session.ClientSeed,
		}

		if !spin.Finished {
			if err = s.freeSpinRepo.Update(txCtx, session); err != nil {
				return err
			}
			wallet, err := s.ledger.Balance(txCtx, playerID, session.Currency)
			if err != nil {
				return err
			}
			res.Balance = wallet.Balance
			return nil
		}

		settled, err = s.ledger.Settle(txCtx, model.SettleRequest{
			PlayerID:    playerID,
			Currency:    session.Currency,
			Type:        model.TxFreeSpinPayout,
			Credit:      session.TotalWin,
			Bet:         session.Bet,
			ExternalRef: freeSpinRef(session.ID),
			Metadata: map[string]string{
				"session_id":       session.ID.String(),
				"server_seed_hash": session.ServerSeedHash,
				"total_spins":      strconv.Itoa(session.TotalSpins),
				"cumulative":       strconv.Itoa(session.CumulativeMultiplier),
			},
		})
		if err != nil {
			return err
		}
		if err = s.seedRepo.SetNonce(txCtx, pair.ID, session.NonceCursor); err != nil {
			return err
		}
		if err = s.freeSpinRepo.Delete(txCtx, session.ID); err != nil {
			return err
		}
		res.TotalWin = settled.Credited
		res.Balance = settled.BalanceAfter
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logCapped(playerID, freeSpinRef(id), settled)
	s.record(ctx, round)
	return res, nil
}
