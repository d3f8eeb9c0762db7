package ledger_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	txTable          = "ledger_transactions"
	colID            = "id"
	colPlayerID      = "player_id"
	colCurrency      = "currency"
	colType          = "type"
	colDebit         = "debit"
	colCredit        = "credit"
	colAmount        = "amount"
	colBalanceBefore = "balance_before"
	colBalanceAfter  = "balance_after"
	colExternalRef   = "external_ref"
	colStatus        = "status"
	colMetadata      = "metadata"
	colCreatedAt     = "created_at"

	entryTable       = "ledger_entries"
	colTransactionID = "transaction_id"
	colAccount       = "account"
	colDelta         = "delta"

	uniqueViolation = "23505"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewLedgerRepository(dbc *pgxpool.Pool) repository.LedgerRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// ExistsByExternalRef - есть ли подтвержденная транзакция с этим ключом идемпотентности
func (r *repo) ExistsByExternalRef(ctx context.Context, externalRef string) (bool, error) {
	query := sq.Select("1").
		Prefix("SELECT EXISTS (").
		From(txTable).
		Where(sq.Eq{colExternalRef: externalRef, colStatus: string(model.StatusConfirmed)}).
		Suffix(")").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateTransaction - транзакция и ее проводки. Уникальный индекс по external_ref
// ловит гонку, которую не поймала проверка ExistsByExternalRef.
func (r *repo) CreateTransaction(ctx context.Context, tx *model.LedgerTransaction, entries []model.LedgerEntry) error {
	meta, err := json.Marshal(tx.Metadata)
	if err != nil {
		return err
	}

	query := sq.Insert(txTable).
		Columns(colID, colPlayerID, colCurrency, colType, colDebit, colCredit, colAmount,
			colBalanceBefore, colBalanceAfter, colExternalRef, colStatus, colMetadata, colCreatedAt).
		Values(tx.ID, tx.PlayerID, tx.Currency, string(tx.Type), tx.Debit, tx.Credit, tx.Amount,
			tx.BalanceBefore, tx.BalanceAfter, tx.ExternalRef, string(tx.Status), meta, tx.CreatedAt).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	conn := r.getter.DefaultTrOrDB(ctx, r.dbc)
	if _, err = conn.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrDuplicateSettlement
		}
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	entryQuery := sq.Insert(entryTable).
		Columns(colID, colTransactionID, colAccount, colPlayerID, colCurrency, colDelta, colCreatedAt).
		PlaceholderFormat(sq.Dollar)
	for _, e := range entries {
		entryQuery = entryQuery.Values(e.ID, e.TransactionID, string(e.Account), e.PlayerID, e.Currency, e.Delta, e.CreatedAt)
	}

	sqlStr, args, err = entryQuery.ToSql()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, sqlStr, args...)
	return err
}
