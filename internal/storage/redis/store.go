// Package redis backs the ledger's KVStore with Redis, using native key
// TTLs as the retention window (seconds).
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

// keyPrefix namespaces ledger records inside a shared Redis instance.
const keyPrefix = "ledger:"

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key models.StorageKey) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+key.Encode()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key.Encode(), err)
	}
	return value, true, nil
}

// Apply queues the batch on a MULTI/EXEC pipeline so the mutations land
// atomically. Retention extension needs the current TTL, so it is read
// before the pipeline is built.
func (s *Store) Apply(ctx context.Context, batch []models.WriteOp) error {
	type extension struct {
		key    string
		window time.Duration
	}
	var extensions []extension
	for _, op := range batch {
		if op.Kind != models.OpExtendRetention {
			continue
		}
		encoded := keyPrefix + op.Key.Encode()
		ttl, err := s.client.TTL(ctx, encoded).Result()
		if err != nil {
			return fmt.Errorf("ttl %s: %w", op.Key.Encode(), err)
		}
		// -1 means no TTL set; pushing it out to the maximum keeps the
		// record from living forever once retention was requested.
		if ttl < 0 || ttl < time.Duration(op.MinWindow)*time.Second {
			extensions = append(extensions, extension{
				key:    encoded,
				window: time.Duration(op.MaxWindow) * time.Second,
			})
		}
	}

	pipe := s.client.TxPipeline()
	for _, op := range batch {
		encoded := keyPrefix + op.Key.Encode()
		switch op.Kind {
		case models.OpPut:
			pipe.Set(ctx, encoded, op.Value, redis.KeepTTL)
		case models.OpDelete:
			pipe.Del(ctx, encoded)
		}
	}
	for _, ext := range extensions {
		pipe.Expire(ctx, ext.key, ext.window)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}
	return nil
}

var _ interfaces.KVStore = (*Store)(nil)
