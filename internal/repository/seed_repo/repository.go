package seed_repo

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table             = "seed_pairs"
	colID             = "id"
	colPlayerID       = "player_id"
	colServerSeed     = "server_seed"
	colServerSeedHash = "server_seed_hash"
	colClientSeed     = "client_seed"
	colNonce          = "nonce"
	colCreatedAt      = "created_at"
	colRevealedAt     = "revealed_at"
)

var columns = []string{colID, colPlayerID, colServerSeed, colServerSeedHash, colClientSeed, colNonce, colCreatedAt, colRevealedAt}

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSeedRepository(dbc *pgxpool.Pool) repository.SeedRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// LockOrCreate - активная пара игрока под FOR UPDATE.
// Если пары нет, вставляет candidate; при гонке вставок побеждает одна,
// вторая читает уже сохраненную строку.
func (r *repo) LockOrCreate(ctx context.Context, candidate *model.SeedPair) (*model.SeedPair, error) {
	insert := sq.Insert(table).
		Columns(colID, colPlayerID, colServerSeed, colServerSeedHash, colClientSeed, colNonce, colCreatedAt).
		Values(candidate.ID, candidate.PlayerID, candidate.ServerSeed, candidate.ServerSeedHash,
			candidate.ClientSeed, int64(candidate.Nonce), candidate.CreatedAt).
		Suffix("ON CONFLICT (" + colPlayerID + ") WHERE " + colRevealedAt + " IS NULL DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := insert.ToSql()
	if err != nil {
		return nil, err
	}
	if _, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...); err != nil {
		return nil, err
	}

	return r.LockActive(ctx, candidate.PlayerID)
}

func (r *repo) LockActive(ctx context.Context, playerID int64) (*model.SeedPair, error) {
	return r.active(ctx, playerID, true)
}

func (r *repo) GetActive(ctx context.Context, playerID int64) (*model.SeedPair, error) {
	return r.active(ctx, playerID, false)
}

func (r *repo) active(ctx context.Context, playerID int64, lock bool) (*model.SeedPair, error) {
	query := sq.Select(columns...).
		From(table).
		Where(sq.Eq{colPlayerID: playerID, colRevealedAt: nil}).
		PlaceholderFormat(sq.Dollar)
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var (
		p     model.SeedPair
		nonce int64
	)
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&p.ID, &p.PlayerID, &p.ServerSeed, &p.ServerSeedHash, &p.ClientSeed, &nonce, &p.CreatedAt, &p.RevealedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSeedNotFound
		}
		return nil, err
	}
	p.Nonce = uint64(nonce)
	return &p, nil
}

func (r *repo) Create(ctx context.Context, pair *model.SeedPair) error {
	query := sq.Insert(table).
		Columns(colID, colPlayerID, colServerSeed, colServerSeedHash, colClientSeed, colNonce, colCreatedAt).
		Values(pair.ID, pair.PlayerID, pair.ServerSeed, pair.ServerSeedHash, pair.ClientSeed, int64(pair.Nonce), pair.CreatedAt).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

// SetNonce - nonce только растет, откат назад считается дефектом
func (r *repo) SetNonce(ctx context.Context, id uuid.UUID, nonce uint64) error {
	query := sq.Update(table).
		Set(colNonce, int64(nonce)).
		Where(sq.Eq{colID: id}).
		Where(sq.LtOrEq{colNonce: int64(nonce)}).
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
		return model.ErrInvariant
	}
	return nil
}

// Reveal закрывает пару: после этого server_seed можно показывать игроку
func (r *repo) Reveal(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := sq.Update(table).
		Set(colRevealedAt, at).
		Where(sq.Eq{colID: id, colRevealedAt: nil}).
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
		return model.ErrSeedNotFound
	}
	return nil
}
