package slot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"slot_backend/internal/engine"
	"slot_backend/internal/model"
)

func spinRef(serverSeedHash string, nonce uint64) string {
	return "spin:" + serverSeedHash + ":" + strconv.FormatUint(nonce, 10)
}

// Spin - платный спин. Все в одной транзакции: блокировка пары сидов,
// проверка бонуса, каскад, расчет по кошельку, запись раунда, nonce+1,
// при выпадении фриспинов - новая сессия. Любая ошибка откатывает все.
func (s *serv) Spin(ctx context.Context, req model.SpinRequest) (*model.SpinResult, error) {
	const op = "slot.Spin"

	stake, err := s.validateSpin(&req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		res     *model.SpinResult
		round   model.Round
		settled *model.SettleResult
		ref     string
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		pair, err := s.lockSeedPair(txCtx, req.PlayerID)
		if err != nil {
			return err
		}
		if err = s.ensureNoSession(txCtx, req.PlayerID); err != nil {
			return err
		}

		out, err := s.engine.ExecuteSpin(pair.Seed(), req.Ante)
		if err != nil {
			return s.invariant(err, req.PlayerID, pair.Nonce)
		}

		win := engine.CapWin(engine.WinAmount(out.TotalWin, req.Bet), req.Bet, s.cfg.MaxWinMultiplier())
		roundID := uuid.New()

		ref = spinRef(pair.ServerSeedHash, pair.Nonce)
		settled, err = s.ledger.Settle(txCtx, model.SettleRequest{
			PlayerID:    req.PlayerID,
			Currency:    req.Currency,
			Type:        model.TxSpin,
			Debit:       stake,
			Credit:      win,
			Bet:         req.Bet,
			ExternalRef: ref,
			Metadata: map[string]string{
				"round_id":         roundID.String(),
				"server_seed_hash": pair.ServerSeedHash,
				"nonce":            strconv.FormatUint(pair.Nonce, 10),
				"ante":             strconv.FormatBool(req.Ante),
			},
		})
		if err != nil {
			return err
		}

		round = model.Round{
			ID:             roundID,
			PlayerID:       req.PlayerID,
			Kind:           model.RoundBase,
			Bet:            req.Bet,
			Stake:          stake,
			Win:            settled.Credited,
			Currency:       req.Currency,
			ServerSeedHash: pair.ServerSeedHash,
			ClientSeed:     pair.ClientSeed,
			Nonce:          pair.Nonce,
			Ante:           req.Ante,
			Outcome:        out,
			CreatedAt:      time.Now().UTC(),
		}
		if err = s.roundRepo.Create(txCtx, &round); err != nil {
			return err
		}
		if err = s.seedRepo.SetNonce(txCtx, pair.ID, pair.Nonce+1); err != nil {
			return err
		}

		res = &model.SpinResult{
			RoundID:        roundID,
			Outcome:        out,
			Bet:            req.Bet,
			Stake:          stake,
			Win:            settled.Credited,
			Currency:       req.Currency,
			Balance:        settled.BalanceAfter,
			ServerSeedHash: pair.ServerSeedHash,
			ClientSeed:     pair.ClientSeed,
			Nonce:          pair.Nonce,
			Ante:           req.Ante,
		}

		if out.FreeSpinsAwarded > 0 {
			// бонус продолжает ту же пару сидов со следующего nonce
			bonusSeed := pair.Seed()
			bonusSeed.Nonce = pair.Nonce + 1
			st := engine.NewBonusState(bonusSeed, req.Ante, req.Bet, out.FreeSpinsAwarded)
			session := model.NewFreeSpinSession(req.PlayerID, req.Currency, pair.ServerSeedHash, st)
			if err = s.freeSpinRepo.Create(txCtx, session); err != nil {
				return err
			}
			res.Session = session
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logCapped(req.PlayerID, ref, settled)
	s.record(ctx, round)
	return res, nil
}
