package slot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"slot_backend/internal/model"
)

// RotateSeed раскрывает текущий серверный сид и коммитит новый.
// Во время бонуса запрещено: раскрытый сид выдал бы исход оставшихся фриспинов.
func (s *serv) RotateSeed(ctx context.Context, playerID int64, clientSeed string) (*model.SeedRotation, error) {
	const op = "slot.RotateSeed"

	if playerID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidPlayer)
	}
	if err := validateClientSeed(clientSeed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rot *model.SeedRotation
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.lockSeedPair(txCtx, playerID)
		if err != nil {
			return err
		}
		if err = s.ensureNoSession(txCtx, playerID); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err = s.seedRepo.Reveal(txCtx, current.ID, now); err != nil {
			return err
		}
		current.RevealedAt = &now

		// пустой clientSeed - оставляем прежний
		if clientSeed == "" {
			clientSeed = current.ClientSeed
		}
		next, err := model.NewSeedPair(playerID, clientSeed)
		if err != nil {
			return err
		}
		if err = s.seedRepo.Create(txCtx, next); err != nil {
			return err
		}

		rot = &model.SeedRotation{Revealed: *current, Next: *next}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("seed rotated",
		zap.Int64("player_id", playerID),
		zap.String("revealed_hash", rot.Revealed.ServerSeedHash),
		zap.Uint64("final_nonce", rot.Revealed.Nonce),
		zap.String("next_hash", rot.Next.ServerSeedHash),
	)
	return rot, nil
}
