package transcript

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// DefaultKeyPrefix namespaces transcript lists in Redis.
const DefaultKeyPrefix = "telhawk:assist:transcript:"

// RedisStore keeps each transcript in a Redis list of JSON turns. RPUSH is
// atomic per key, so concurrent appends never interleave partially.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *logging.Logger
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client, prefix string, logger *logging.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, logger: logging.OrDefault(logger)}
}

// NewRedisClient parses url and verifies connectivity.
func NewRedisClient(ctx context.Context, url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Append pushes turn onto id's list.
func (s *RedisStore) Append(ctx context.Context, id string, turn models.ConversationTurn) error {
	if id == "" {
		return ErrEmptyID
	}
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("transcript: marshal turn: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(id), data).Err(); err != nil {
		return fmt.Errorf("transcript: append: %w", err)
	}
	return nil
}

// Read returns the most recent limit turns for id. Entries that fail to
// decode are skipped.
func (s *RedisStore) Read(ctx context.Context, id string, limit int) ([]models.ConversationTurn, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	limit = normalizeLimit(limit)

	values, err := s.client.LRange(ctx, s.key(id), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("transcript: read: %w", err)
	}

	turns := make([]models.ConversationTurn, 0, len(values))
	for _, v := range values {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable transcript entry", logging.Error(err))
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
