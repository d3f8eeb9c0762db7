package free_spin_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table             = "free_spin_sessions"
	colID             = "id"
	colPlayerID       = "player_id"
	colBet            = "bet"
	colCurrency       = "currency"
	colAnte           = "ante"
	colSpinsRemaining = "spins_remaining"
	colTotalSpins     = "total_spins"
	colCumulative     = "cumulative_multiplier"
	colTotalWin       = "total_win"
	colServerSeed     = "server_seed"
	colServerSeedHash = "server_seed_hash"
	colClientSeed     = "client_seed"
	colNonceCursor    = "nonce_cursor"
	colCreatedAt      = "created_at"
	colUpdatedAt      = "updated_at"

	uniqueViolation = "23505"
)

var columns = []string{
	colID, colPlayerID, colBet, colCurrency, colAnte, colSpinsRemaining, colTotalSpins, colCumulative,
	colTotalWin, colServerSeed, colServerSeedHash, colClientSeed, colNonceCursor, colCreatedAt, colUpdatedAt,
}

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewFreeSpinRepository(dbc *pgxpool.Pool) repository.FreeSpinRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetByPlayer - активная сессия игрока. Нет записи -> model.ErrSessionNotFound
func (r *repo) GetByPlayer(ctx context.Context, playerID int64) (*model.FreeSpinSession, error) {
	return r.one(ctx, sq.Eq{colPlayerID: playerID}, false)
}

// LockByID - сессия под FOR UPDATE
func (r *repo) LockByID(ctx context.Context, id uuid.UUID) (*model.FreeSpinSession, error) {
	return r.one(ctx, sq.Eq{colID: id}, true)
}

func (r *repo) one(ctx context.Context, where sq.Eq, lock bool) (*model.FreeSpinSession, error) {
	query := sq.Select(columns...).
		From(table).
		Where(where).
		PlaceholderFormat(sq.Dollar)
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var (
		s      model.FreeSpinSession
		cursor int64
	)
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&s.ID, &s.PlayerID, &s.Bet, &s.Currency, &s.Ante, &s.SpinsRemaining, &s.TotalSpins, &s.CumulativeMultiplier,
		&s.TotalWin, &s.ServerSeed, &s.ServerSeedHash, &s.ClientSeed, &cursor, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}
	s.NonceCursor = uint64(cursor)
	return &s, nil
}

// Create - новая сессия. Уникальный индекс по player_id не дает открыть вторую.
func (r *repo) Create(ctx context.Context, s *model.FreeSpinSession) error {
	query := sq.Insert(table).
		Columns(columns...).
		Values(s.ID, s.PlayerID, s.Bet, s.Currency, s.Ante, s.SpinsRemaining, s.TotalSpins, s.CumulativeMultiplier,
			s.TotalWin, s.ServerSeed, s.ServerSeedHash, s.ClientSeed, int64(s.NonceCursor), s.CreatedAt, s.UpdatedAt).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrSessionActive
		}
		return err
	}
	return nil
}

// Update - прогресс после бонусного спина
func (r *repo) Update(ctx context.Context, s *model.FreeSpinSession) error {
	query := sq.Update(table).
		Set(colSpinsRemaining, s.SpinsRemaining).
		Set(colTotalSpins, s.TotalSpins).
		Set(colCumulative, s.CumulativeMultiplier).
		Set(colTotalWin, s.TotalWin).
		Set(colNonceCursor, int64(s.NonceCursor)).
		Set(colUpdatedAt, s.UpdatedAt).
		Where(sq.Eq{colID: s.ID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

// Delete - сессия закрыта и выплачена
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := sq.Delete(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}
