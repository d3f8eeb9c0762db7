package slot

import (
	"context"
	"fmt"
	"strings"

	"slot_backend/internal/model"
	"slot_backend/pkg/provably"
)

// Verify пересчитывает спин по раскрытому сиду. Состояние не читает и не меняет.
func (s *serv) Verify(_ context.Context, req model.VerifyRequest) (*model.VerifyResult, error) {
	const op = "slot.Verify"

	if req.ServerSeed == "" {
		return nil, fmt.Errorf("%s: %w: empty server seed", op, model.ErrInvalidSeed)
	}
	if err := validateClientSeed(req.ClientSeed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.engine.Verify(req.ServerSeed, req.ClientSeed, req.Nonce, req.Ante)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.invariant(err, 0, req.Nonce))
	}

	res := &model.VerifyResult{
		ServerSeedHash: v.ServerSeedHash,
		Outcome:        v.Outcome,
	}
	if expected := strings.TrimSpace(req.ExpectedHash); expected != "" {
		res.HashChecked = true
		res.HashMatches = provably.VerifyCommitment(req.ServerSeed, strings.ToLower(expected))
	}
	return res, nil
}
