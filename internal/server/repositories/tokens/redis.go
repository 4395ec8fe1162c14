package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

const tokenKeyPrefix = "token:"

// RedisRepository keeps one JSON record per token under "token:<hash>".
// Each operation is a single Redis command, so a Destroy is visible to the
// next FindByToken.
type RedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository expires each record after ttl, which should match the
// token lifetime. Zero keeps records until Destroy.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

type redisRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Purpose   string    `json:"purpose"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *RedisRepository) Create(ctx context.Context, token, userID, purpose string) (*models.Token, error) {
	record := &models.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: Hash(token),
		Purpose:   purpose,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(redisRecord{
		ID:        record.ID,
		UserID:    record.UserID,
		Purpose:   record.Purpose,
		CreatedAt: record.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	ok, err := r.rdb.SetNX(ctx, tokenKey(record.TokenHash), payload, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if !ok {
		return nil, common.ErrAlreadyExists
	}
	return record, nil
}

func (r *RedisRepository) FindByToken(ctx context.Context, token string) (*models.Token, error) {
	hash := Hash(token)
	data, err := r.rdb.Get(ctx, tokenKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode token record: %w", err)
	}
	return &models.Token{
		ID:        rec.ID,
		UserID:    rec.UserID,
		TokenHash: hash,
		Purpose:   rec.Purpose,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (r *RedisRepository) Destroy(ctx context.Context, record *models.Token) error {
	if err := r.rdb.Del(ctx, tokenKey(record.TokenHash)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func tokenKey(hash string) string {
	return tokenKeyPrefix + hash
}
