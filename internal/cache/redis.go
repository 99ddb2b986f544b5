package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Messages caches the most recent messages of each conversation in Redis so
// chat history loads skip Postgres for the hot tail. A sorted set per
// conversation indexes per-message hashes by send time.
type Messages struct {
	cli *redis.Client
}

// Connect connects to the Redis server and pings it to ensure the
// connection is working.
func Connect(ctx context.Context, addr string) (*Messages, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Messages{cli: cli}, nil
}

const (
	conversationPrefix = "conv"
	maxSize            = 50
)

// Message is the cached representation; CreatedAt is unix nanoseconds since
// Redis hashes only scan into scalar fields.
type Message struct {
	ID         string `redis:"id"`
	SenderID   string `redis:"sender_id"`
	ReceiverID string `redis:"receiver_id"`
	Text       string `redis:"text"`
	CreatedAt  int64  `redis:"created_at"`
}

func convKey(convID string) string {
	return fmt.Sprintf("%s:%s", conversationPrefix, convID)
}

// Recent returns the cached messages of a conversation, oldest first.
func (m *Messages) Recent(ctx context.Context, convID string) ([]Message, error) {
	keys, err := m.cli.ZRangeByScore(ctx, convKey(convID), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", time.Now().UnixNano()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange: %w", err)
	}

	out := make([]Message, 0, len(keys))
	for _, key := range keys {
		var msg Message
		if err := m.cli.HGetAll(ctx, key).Scan(&msg); err != nil {
			return nil, fmt.Errorf("hgetall: %w", err)
		}
		if msg.ID == "" {
			continue // hash expired out from under the index
		}
		out = append(out, msg)
	}
	return out, nil
}

// Add stores one message under conv:CONV_ID:MESSAGE_ID and indexes the key
// in the conversation's sorted set, then trims the set to maxSize.
func (m *Messages) Add(ctx context.Context, convID string, msg Message) error {
	setKey := convKey(convID)
	key := fmt.Sprintf("%s:%s", setKey, msg.ID)

	err := m.cli.Watch(ctx, func(tx *redis.Tx) error {
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, msg)
			pipe.ZAdd(ctx, setKey, redis.Z{
				Score:  float64(msg.CreatedAt),
				Member: key,
			})
			return nil
		})
		return err
	}, msg.ID)
	if err != nil {
		return fmt.Errorf("redis add message: %w", err)
	}

	if err := m.evictOldest(ctx, setKey); err != nil {
		return fmt.Errorf("evict oldest: %w", err)
	}
	return nil
}

func (m *Messages) evictOldest(ctx context.Context, setKey string) error {
	keys, err := m.cli.ZRange(ctx, setKey, 0, int64(-maxSize-1)).Result()
	if err != nil {
		return fmt.Errorf("zrange: %w", err)
	}
	for _, key := range keys {
		_ = m.cli.ZRem(ctx, setKey, key).Err()
		_ = m.cli.Del(ctx, key).Err()
	}
	return nil
}
