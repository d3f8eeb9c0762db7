package slot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"slot_backend/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History - последние раунды игрока: сначала кэш, при промахе база
func (s *serv) History(ctx context.Context, playerID int64, limit int) ([]model.Round, error) {
	const op = "slot.History"

	if playerID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidPlayer)
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	if s.historyCache != nil {
		rounds, ok, err := s.historyCache.Recent(ctx, playerID, limit)
		if err != nil {
			s.log.Warn("history cache read failed", zap.Error(err), zap.Int64("player_id", playerID))
		}
		if err == nil && ok {
			return rounds, nil
		}
	}

	rounds, err := s.roundRepo.ListByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rounds, nil
}
