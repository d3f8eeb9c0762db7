package history_cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	keyPrefix = "slot:history:"
	opTimeout = 300 * time.Millisecond
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cache - последние раунды игрока в sorted set, score = время раунда в мс
type cache struct {
	rdb  redis.UniversalClient
	size int
	ttl  time.Duration
}

func NewHistoryCache(rdb redis.UniversalClient, size int, ttl time.Duration) repository.HistoryCache {
	return &cache{
		rdb:  rdb,
		size: size,
		ttl:  ttl,
	}
}

func key(playerID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, playerID)
}

// Push добавляет раунды и обрезает набор до size последних
func (c *cache) Push(ctx context.Context, rounds ...model.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := c.rdb.TxPipeline()
	touched := make(map[string]struct{}, 1)
	for _, rd := range rounds {
		data, err := json.Marshal(rd)
		if err != nil {
			return err
		}
		k := key(rd.PlayerID)
		pipe.ZAdd(ctx, k, redis.Z{Score: float64(rd.CreatedAt.UnixMilli()), Member: data})
		touched[k] = struct{}{}
	}
	for k := range touched {
		pipe.ZRemRangeByRank(ctx, k, 0, int64(-(c.size + 1)))
		pipe.Expire(ctx, k, c.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Recent - до limit последних раундов, новые первыми
func (c *cache) Recent(ctx context.Context, playerID int64, limit int) ([]model.Round, bool, error) {
	if limit > c.size {
		return nil, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	vals, err := c.rdb.ZRevRange(ctx, key(playerID), 0, int64(limit-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(vals) < limit {
		return nil, false, nil
	}

	rounds := make([]model.Round, 0, len(vals))
	for _, v := range vals {
		var rd model.Round
		if err := json.UnmarshalFromString(v, &rd); err != nil {
			return nil, false, err
		}
		rounds = append(rounds, rd)
	}
	return rounds, true, nil
}
