package round_repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table             = "rounds"
	colID             = "id"
	colPlayerID       = "player_id"
	colKind           = "kind"
	colSessionID      = "session_id"
	colBet            = "bet"
	colStake          = "stake"
	colWin            = "win"
	colCurrency       = "currency"
	colServerSeedHash = "server_seed_hash"
	colClientSeed     = "client_seed"
	colNonce          = "nonce"
	colAnte           = "ante"
	colOutcome        = "outcome"
	colCreatedAt      = "created_at"
)

var (
	json    = jsoniter.ConfigCompatibleWithStandardLibrary
	columns = []string{
		colID, colPlayerID, colKind, colSessionID, colBet, colStake, colWin, colCurrency,
		colServerSeedHash, colClientSeed, colNonce, colAnte, colOutcome, colCreatedAt,
	}
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewRoundRepository(dbc *pgxpool.Pool) repository.RoundRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// Create - запись раунда. Outcome хранится как есть, без изменений, для повторной проверки.
func (r *repo) Create(ctx context.Context, round *model.Round) error {
	outcome, err := json.Marshal(round.Outcome)
	if err != nil {
		return err
	}

	var sessionID *uuid.UUID
	if round.SessionID != uuid.Nil {
		sessionID = &round.SessionID
	}

	query := sq.Insert(table).
		Columns(columns...).
		Values(round.ID, round.PlayerID, string(round.Kind), sessionID, round.Bet, round.Stake, round.Win, round.Currency,
			round.ServerSeedHash, round.ClientSeed, int64(round.Nonce), round.Ante, outcome, round.CreatedAt).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

func (r *repo) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]model.Round, error) {
	query := sq.Select(columns...).
		From(table).
		Where(sq.Eq{colPlayerID: playerID}).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]model.Round, 0, limit)
	for rows.Next() {
		var (
			rd        model.Round
			kind      string
			sessionID *uuid.UUID
			nonce     int64
			outcome   []byte
		)
		err = rows.Scan(&rd.ID, &rd.PlayerID, &kind, &sessionID, &rd.Bet, &rd.Stake, &rd.Win, &rd.Currency,
			&rd.ServerSeedHash, &rd.ClientSeed, &nonce, &rd.Ante, &outcome, &rd.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err = json.Unmarshal(outcome, &rd.Outcome); err != nil {
			return nil, err
		}
		rd.Kind = model.RoundKind(kind)
		rd.Nonce = uint64(nonce)
		if sessionID != nil {
			rd.SessionID = *sessionID
		}
		rounds = append(rounds, rd)
	}
	return rounds, rows.Err()
}
