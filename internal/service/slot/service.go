package slot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slot_backend/internal/config"
	"slot_backend/internal/engine"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/internal/service"
)

type serv struct {
	cfg        config.SlotConfig
	engine     *engine.Engine
	bonusRules engine.BonusRules

	txManager    repository.TxManager
	ledger       service.LedgerService
	seedRepo     repository.SeedRepository
	freeSpinRepo repository.FreeSpinRepository
	roundRepo    repository.RoundRepository
	historyCache repository.HistoryCache
	statsRepo    repository.GameStatsRepository

	log *zap.Logger
}

type Deps struct {
	Cfg          config.SlotConfig
	TxManager    repository.TxManager
	Ledger       service.LedgerService
	SeedRepo     repository.SeedRepository
	FreeSpinRepo repository.FreeSpinRepository
	RoundRepo    repository.RoundRepository
	// HistoryCache может быть nil, тогда история читается только из RoundRepo
	HistoryCache repository.HistoryCache
	StatsRepo    repository.GameStatsRepository
	Log          *zap.Logger
}

// NewSlotService собирает движок из конфига; некорректная математика - ошибка старта
func NewSlotService(deps Deps) (service.SlotService, error) {
	eng, err := engine.New(deps.Cfg.Rules())
	if err != nil {
		return nil, err
	}
	return &serv{
		cfg:          deps.Cfg,
		engine:       eng,
		bonusRules:   deps.Cfg.BonusRules(),
		txManager:    deps.TxManager,
		ledger:       deps.Ledger,
		seedRepo:     deps.SeedRepo,
		freeSpinRepo: deps.FreeSpinRepo,
		roundRepo:    deps.RoundRepo,
		historyCache: deps.HistoryCache,
		statsRepo:    deps.StatsRepo,
		log:          deps.Log,
	}, nil
}

// lockSeedPair - активная пара игрока под блокировкой. Эта строка - мьютекс игрока:
// все, что меняет его сессию и nonce, проходит через нее.
func (s *serv) lockSeedPair(ctx context.Context, playerID int64) (*model.SeedPair, error) {
	candidate, err := model.NewSeedPair(playerID, "")
	if err != nil {
		return nil, err
	}
	return s.seedRepo.LockOrCreate(ctx, candidate)
}

// ensureNoSession - пока идет бонус, платный спин и ротация сида запрещены
func (s *serv) ensureNoSession(ctx context.Context, playerID int64) error {
	_, err := s.freeSpinRepo.GetByPlayer(ctx, playerID)
	switch {
	case err == nil:
		return model.ErrSessionActive
	case errors.Is(err, model.ErrSessionNotFound):
		return nil
	default:
		return err
	}
}

// invariant логирует дефект и превращает его в ErrInvariant
func (s *serv) invariant(err error, playerID int64, nonce uint64) error {
	s.log.Error("slot invariant violated",
		zap.Error(err),
		zap.Int64("player_id", playerID),
		zap.Uint64("nonce", nonce),
	)
	return fmt.Errorf("%w: %w", model.ErrInvariant, err)
}

// record - побочные эффекты после коммита: кэш истории и статистика
// logCapped вызывается только после коммита: урезанное зачисление уже в журнале
func (s *serv) logCapped(playerID int64, ref string, settled *model.SettleResult) {
	if settled == nil || !settled.Capped {
		return
	}
	s.log.Warn("credit capped at max win",
		zap.Int64("player_id", playerID),
		zap.String("external_ref", ref),
		zap.String("requested", settled.Requested.String()),
		zap.String("credited", settled.Credited.String()),
	)
}

func (s *serv) record(ctx context.Context, rounds ...model.Round) {
	for _, rd := range rounds {
		s.statsRepo.UpdateState(rd.Kind, rd.Stake, rd.Win)
	}
	if s.historyCache == nil {
		return
	}
	if err := s.historyCache.Push(ctx, rounds...); err != nil {
		s.log.Warn("history cache push failed", zap.Error(err))
	}
}
