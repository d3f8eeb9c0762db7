package slot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"slot_backend/internal/engine"
	"slot_backend/internal/model"
)

const maxClientSeedLen = 64

// validateSpin нормализует валюту и считает фактическую ставку.
// Диапазон ставок проверяется по фактической ставке: в режиме анте bet * AnteFactor.
func (s *serv) validateSpin(req *model.SpinRequest) (decimal.Decimal, error) {
	if req.PlayerID <= 0 {
		return decimal.Zero, model.ErrInvalidPlayer
	}

	currency, err := s.currency(req.Currency)
	if err != nil {
		return decimal.Zero, err
	}
	req.Currency = currency

	if !req.Bet.IsPositive() || !req.Bet.Equal(req.Bet.Truncate(engine.MoneyPlaces)) {
		return decimal.Zero, fmt.Errorf("%w: bet %s", model.ErrInvalidBet, req.Bet)
	}

	stake := req.Bet
	if req.Ante {
		// округляем вверх: фактическая ставка не может оказаться меньше заявленной
		stake = req.Bet.Mul(s.cfg.AnteFactor()).RoundCeil(engine.MoneyPlaces)
	}
	if stake.LessThan(s.cfg.MinBet()) || stake.GreaterThan(s.cfg.MaxBet()) {
		return decimal.Zero, fmt.Errorf("%w: stake %s outside [%s, %s]", model.ErrInvalidBet, stake, s.cfg.MinBet(), s.cfg.MaxBet())
	}
	return stake, nil
}

// currency - код валюты в верхнем регистре, пустой -> валюта по умолчанию
func (s *serv) currency(raw string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return s.cfg.DefaultCurrency(), nil
	}
	if len(c) < 3 || len(c) > 10 {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidCurrency, raw)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", model.ErrInvalidCurrency, raw)
		}
	}
	return c, nil
}

func validateClientSeed(seed string) error {
	if len(seed) > maxClientSeedLen {
		return fmt.Errorf("%w: longer than %d", model.ErrInvalidClientSeed, maxClientSeedLen)
	}
	if strings.TrimSpace(seed) != seed {
		return fmt.Errorf("%w: leading or trailing spaces", model.ErrInvalidClientSeed)
	}
	return nil
}
