package app

import (
	"context"
	"net/http"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	slotAPI "slot_backend/internal/api/slot"
	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/logger"
	"slot_backend/internal/repository"
	"slot_backend/internal/repository/free_spin_repo"
	"slot_backend/internal/repository/history_cache"
	"slot_backend/internal/repository/ledger_repo"
	"slot_backend/internal/repository/memory"
	"slot_backend/internal/repository/round_repo"
	"slot_backend/internal/repository/seed_repo"
	"slot_backend/internal/repository/stats_repo"
	"slot_backend/internal/repository/wallet_repo"
	"slot_backend/internal/service"
	"slot_backend/internal/service/ledger"
	"slot_backend/internal/service/slot"
	"slot_backend/pkg/resp"
)

type ServiceProvider struct {
	// Logger
	loggerCfg config.LoggerConfig
	log       *zap.Logger

	// Storage
	storageCfg  config.StorageConfig
	memoryStore *memory.Store
	txManager   repository.TxManager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Redis
	redisCfg     config.RedisConfig
	redisClient  *redis.Client
	historyCache repository.HistoryCache

	// Ledger bits
	walletRepo repository.WalletRepository
	ledgerRepo repository.LedgerRepository
	ledgerServ service.LedgerService

	// Slot bits
	slotCfg      config.SlotConfig
	seedRepo     repository.SeedRepository
	freeSpinRepo repository.FreeSpinRepository
	roundRepo    repository.RoundRepository
	statsRepo    repository.GameStatsRepository
	slotServ     service.SlotService
	slotHand     *slotAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LoggerCfg() config.LoggerConfig {
	if sp.loggerCfg == nil {
		cfg, err := env.NewLoggerConfig()
		if err != nil {
			panic("failed to get logger config: " + err.Error())
		}
		sp.loggerCfg = cfg
	}
	return sp.loggerCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		l, err := logger.New(sp.LoggerCfg().Level(), sp.LoggerCfg().Development())
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = l
	}
	return sp.log
}

func (sp *ServiceProvider) StorageCfg() config.StorageConfig {
	if sp.storageCfg == nil {
		cfg, err := env.NewStorageConfig()
		if err != nil {
			panic("failed to get storage config: " + err.Error())
		}
		sp.storageCfg = cfg
	}
	return sp.storageCfg
}

func (sp *ServiceProvider) inMemory() bool {
	return sp.StorageCfg().Backend() == env.BackendMemory
}

// MemoryStore - хранилище для STORAGE_BACKEND=memory
func (sp *ServiceProvider) MemoryStore() *memory.Store {
	if sp.memoryStore == nil {
		var opts []memory.Option
		if b := sp.StorageCfg().MemoryWalletBalance(); b.IsPositive() {
			opts = append(opts, memory.WithDefaultBalance(b))
		}
		sp.memoryStore = memory.NewStore(opts...)
	}
	return sp.memoryStore
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) repository.TxManager {
	if sp.txManager == nil {
		if sp.inMemory() {
			sp.txManager = sp.MemoryStore()
			return sp.txManager
		}
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.redisClient == nil {
		cfg := sp.RedisCfg()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

// HistoryCache - nil, если REDIS_ADDR не задан
func (sp *ServiceProvider) HistoryCache(ctx context.Context) repository.HistoryCache {
	if sp.historyCache == nil && sp.RedisCfg().Enabled() {
		cfg := sp.RedisCfg()
		sp.historyCache = history_cache.NewHistoryCache(sp.RedisClient(ctx), cfg.HistorySize(), cfg.HistoryTTL())
	}
	return sp.historyCache
}

func (sp *ServiceProvider) WalletRepository(ctx context.Context) repository.WalletRepository {
	if sp.walletRepo == nil {
		if sp.inMemory() {
			sp.walletRepo = memory.NewWalletRepository(sp.MemoryStore())
		} else {
			sp.walletRepo = wallet_repo.NewWalletRepository(sp.DBClient(ctx))
		}
	}
	return sp.walletRepo
}

func (sp *ServiceProvider) LedgerRepository(ctx context.Context) repository.LedgerRepository {
	if sp.ledgerRepo == nil {
		if sp.inMemory() {
			sp.ledgerRepo = memory.NewLedgerRepository(sp.MemoryStore())
		} else {
			sp.ledgerRepo = ledger_repo.NewLedgerRepository(sp.DBClient(ctx))
		}
	}
	return sp.ledgerRepo
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(
			sp.TXManager(ctx),
			sp.WalletRepository(ctx),
			sp.LedgerRepository(ctx),
			sp.SlotCfg().MaxWinMultiplier(),
			sp.Logger().Named("ledger"),
		)
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) SlotCfg() config.SlotConfig {
	if sp.slotCfg == nil {
		cfg, err := env.NewSlotConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get slot config: " + err.Error())
		}
		sp.slotCfg = cfg
	}
	return sp.slotCfg
}

func (sp *ServiceProvider) SeedRepository(ctx context.Context) repository.SeedRepository {
	if sp.seedRepo == nil {
		if sp.inMemory() {
			sp.seedRepo = memory.NewSeedRepository(sp.MemoryStore())
		} else {
			sp.seedRepo = seed_repo.NewSeedRepository(sp.DBClient(ctx))
		}
	}
	return sp.seedRepo
}

func (sp *ServiceProvider) FreeSpinRepository(ctx context.Context) repository.FreeSpinRepository {
	if sp.freeSpinRepo == nil {
		if sp.inMemory() {
			sp.freeSpinRepo = memory.NewFreeSpinRepository(sp.MemoryStore())
		} else {
			sp.freeSpinRepo = free_spin_repo.NewFreeSpinRepository(sp.DBClient(ctx))
		}
	}
	return sp.freeSpinRepo
}

func (sp *ServiceProvider) RoundRepository(ctx context.Context) repository.RoundRepository {
	if sp.roundRepo == nil {
		if sp.inMemory() {
			sp.roundRepo = memory.NewRoundRepository(sp.MemoryStore())
		} else {
			sp.roundRepo = round_repo.NewRoundRepository(sp.DBClient(ctx))
		}
	}
	return sp.roundRepo
}

func (sp *ServiceProvider) StatsRepository() repository.GameStatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewGameStatsRepository(sp.SlotCfg().TargetRTP(), sp.Logger().Named("stats"))
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) SlotService(ctx context.Context) service.SlotService {
	if sp.slotServ == nil {
		serv, err := slot.NewSlotService(slot.Deps{
			Cfg:          sp.SlotCfg(),
			TxManager:    sp.TXManager(ctx),
			Ledger:       sp.LedgerService(ctx),
			SeedRepo:     sp.SeedRepository(ctx),
			FreeSpinRepo: sp.FreeSpinRepository(ctx),
			RoundRepo:    sp.RoundRepository(ctx),
			HistoryCache: sp.HistoryCache(ctx),
			StatsRepo:    sp.StatsRepository(),
			Log:          sp.Logger().Named("slot"),
		})
		if err != nil {
			panic("failed to create slot service: " + err.Error())
		}
		sp.slotServ = serv
	}
	return sp.slotServ
}

func (sp *ServiceProvider) SlotHandler(ctx context.Context) *slotAPI.Handler {
	if sp.slotHand == nil {
		sp.slotHand = slotAPI.NewHandler(slotAPI.HandlerDeps{
			Serv: sp.SlotService(ctx),
			Log:  sp.Logger().Named("http"),
		})
	}
	return sp.slotHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chiMiddleware.RequestID)
		r.Use(chiMiddleware.RealIP)
		r.Use(chiMiddleware.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Player-ID", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Slot endpoints
		sp.SlotHandler(ctx).Routes(r)

		sp.router = r
	}

	return sp.router
}

// Close освобождает внешние соединения
func (sp *ServiceProvider) Close() {
	if sp.redisClient != nil {
		if err := sp.redisClient.Close(); err != nil {
			sp.Logger().Warn("redis close failed", zap.Error(err))
		}
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.log != nil {
		_ = sp.log.Sync()
	}
}
