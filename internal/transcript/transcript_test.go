package transcript

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func turn(msg string) models.ConversationTurn {
	return models.ConversationTurn{
		Timestamp:   time.Now().UTC().Truncate(time.Millisecond),
		UserMessage: msg,
		Response:    "re: " + msg,
	}
}

// stores returns one instance of every Store implementation.
func stores(t *testing.T) map[string]Store {
	_, client := setupTestRedis(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, "", logging.Nop()),
	}
}

func TestStore_ChronologicalOrderAndLimit(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Append(ctx, "alice", turn("first")))
			require.NoError(t, store.Append(ctx, "alice", turn("second")))

			turns, err := store.Read(ctx, "alice", 0)
			require.NoError(t, err)
			require.Len(t, turns, 2)
			assert.Equal(t, "first", turns[0].UserMessage)
			assert.Equal(t, "second", turns[1].UserMessage)

			turns, err = store.Read(ctx, "alice", 1)
			require.NoError(t, err)
			require.Len(t, turns, 1)
			assert.Equal(t, "second", turns[0].UserMessage)
		})
	}
}

func TestStore_KeyedByID(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Append(ctx, "alice", turn("a")))
			require.NoError(t, store.Append(ctx, "bob", turn("b")))

			turns, err := store.Read(ctx, "bob", 10)
			require.NoError(t, err)
			require.Len(t, turns, 1)
			assert.Equal(t, "b", turns[0].UserMessage)

			turns, err = store.Read(ctx, "carol", 10)
			require.NoError(t, err)
			assert.Empty(t, turns)
		})
	}
}

func TestStore_DefaultLimit(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < DefaultReadLimit+5; i++ {
				require.NoError(t, store.Append(ctx, "alice", turn(fmt.Sprintf("m%d", i))))
			}

			turns, err := store.Read(ctx, "alice", -1)
			require.NoError(t, err)
			require.Len(t, turns, DefaultReadLimit)
			assert.Equal(t, "m5", turns[0].UserMessage)
			assert.Equal(t, fmt.Sprintf("m%d", DefaultReadLimit+4), turns[len(turns)-1].UserMessage)
		})
	}
}

func TestStore_EmptyID(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Append(context.Background(), "", turn("x")), ErrEmptyID)
			_, err := store.Read(context.Background(), "", 1)
			assert.ErrorIs(t, err, ErrEmptyID)
		})
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, store.Append(ctx, "shared", turn(fmt.Sprintf("m%d", i))))
				}(i)
			}
			wg.Wait()

			turns, err := store.Read(ctx, "shared", 100)
			require.NoError(t, err)
			assert.Len(t, turns, 20)
		})
	}
}

func TestMemoryStore_ReadReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "alice", turn("original")))

	turns, err := s.Read(ctx, "alice", 1)
	require.NoError(t, err)
	turns[0].UserMessage = "mutated"

	again, err := s.Read(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].UserMessage)
	assert.Equal(t, 1, s.Len("alice"))
}

func TestRedisStore_SkipsCorruptEntries(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisStore(client, "test:", logging.Nop())
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "alice", turn("good")))
	_, err := mr.RPush("test:alice", "not-json")
	require.NoError(t, err)

	turns, err := s.Read(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "good", turns[0].UserMessage)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0", 5)
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), "://bad", 0)
	assert.Error(t, err)
}

func TestRedisStore_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0", 5)
	require.NoError(t, err)
	store := NewRedisStore(client, "", logging.Nop())

	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
	_ = store.Close()
}
