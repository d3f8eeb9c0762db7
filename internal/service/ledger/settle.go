package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slot_backend/internal/engine"
	"slot_backend/internal/model"
)

// Settle - одна транзакция БД:
// блокируем кошелек, отсекаем повтор externalRef, проверяем средства,
// режем зачисление по потолку, пишем баланс, транзакцию и две проводки.
// Повторов нет: любая ошибка откатывает все целиком.
// Capped логирует вызывающий, после коммита своей транзакции.
func (s *serv) Settle(ctx context.Context, req model.SettleRequest) (*model.SettleResult, error) {
	const op = "ledger.Settle"

	if err := validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var res *model.SettleResult
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		wallet, err := s.walletRepo.LockWallet(txCtx, req.PlayerID, req.Currency)
		if err != nil {
			return err
		}

		// проверка после блокировки: параллельный расчет с тем же ключом уже закоммичен
		exists, err := s.ledgerRepo.ExistsByExternalRef(txCtx, req.ExternalRef)
		if err != nil {
			return err
		}
		if exists {
			s.log.Warn("duplicate settlement rejected",
				zap.Int64("player_id", req.PlayerID),
				zap.String("external_ref", req.ExternalRef),
			)
			return model.ErrDuplicateSettlement
		}

		if wallet.Balance.LessThan(req.Debit) {
			return model.ErrInsufficientFunds
		}

		credit := req.Credit
		capped := false
		if req.Bet.IsPositive() {
			credit = engine.CapWin(req.Credit, req.Bet, s.maxWinMultiplier)
			capped = !credit.Equal(req.Credit)
		}

		amount := credit.Sub(req.Debit)
		after := wallet.Balance.Add(amount)
		if after.IsNegative() {
			return fmt.Errorf("%w: balance would become %s", model.ErrInvariant, after)
		}

		if err = s.walletRepo.UpdateBalance(txCtx, req.PlayerID, req.Currency, after); err != nil {
			return err
		}

		now := time.Now().UTC()
		tx := &model.LedgerTransaction{
			ID:            uuid.New(),
			PlayerID:      req.PlayerID,
			Currency:      req.Currency,
			Type:          req.Type,
			Debit:         req.Debit,
			Credit:        credit,
			Amount:        amount,
			BalanceBefore: wallet.Balance,
			BalanceAfter:  after,
			ExternalRef:   req.ExternalRef,
			Status:        model.StatusConfirmed,
			Metadata:      req.Metadata,
			CreatedAt:     now,
		}
		entries := []model.LedgerEntry{
			{ID: uuid.New(), TransactionID: tx.ID, Account: model.AccountWallet, PlayerID: req.PlayerID, Currency: req.Currency, Delta: amount, CreatedAt: now},
			{ID: uuid.New(), TransactionID: tx.ID, Account: model.AccountHouse, PlayerID: req.PlayerID, Currency: req.Currency, Delta: amount.Neg(), CreatedAt: now},
		}
		if err = s.ledgerRepo.CreateTransaction(txCtx, tx, entries); err != nil {
			return err
		}

		res = &model.SettleResult{
			TransactionID: tx.ID,
			BalanceBefore: wallet.Balance,
			BalanceAfter:  after,
			Requested:     req.Credit,
			Credited:      credit,
			Capped:        capped,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Balance - кошелек без блокировки
func (s *serv) Balance(ctx context.Context, playerID int64, currency string) (*model.Wallet, error) {
	const op = "ledger.Balance"

	w, err := s.walletRepo.GetWallet(ctx, playerID, currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func validate(req model.SettleRequest) error {
	switch {
	case req.PlayerID <= 0:
		return model.ErrInvalidPlayer
	case req.Currency == "":
		return model.ErrInvalidCurrency
	case req.ExternalRef == "":
		return fmt.Errorf("%w: empty external ref", model.ErrInvalidSettlement)
	case req.Debit.IsNegative() || req.Credit.IsNegative() || req.Bet.IsNegative():
		return fmt.Errorf("%w: negative amount", model.ErrInvalidSettlement)
	}
	return nil
}
