package ledger

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slot_backend/internal/repository"
	"slot_backend/internal/service"
)

type serv struct {
	txManager        repository.TxManager
	walletRepo       repository.WalletRepository
	ledgerRepo       repository.LedgerRepository
	maxWinMultiplier decimal.Decimal
	log              *zap.Logger
}

// NewLedgerService - расчеты по кошельку. maxWinMultiplier - потолок зачисления в ставках.
func NewLedgerService(
	txManager repository.TxManager,
	walletRepo repository.WalletRepository,
	ledgerRepo repository.LedgerRepository,
	maxWinMultiplier decimal.Decimal,
	log *zap.Logger,
) service.LedgerService {
	return &serv{
		txManager:        txManager,
		walletRepo:       walletRepo,
		ledgerRepo:       ledgerRepo,
		maxWinMultiplier: maxWinMultiplier,
		log:              log,
	}
}
