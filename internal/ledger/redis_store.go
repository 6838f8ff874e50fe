package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisWalletsKey = "ledger:v1:wallets"
	redisTxKey      = "ledger:v1:transactions"
	redisVersionKey = "ledger:v1:version"
)

// RedisStore persists the two state collections as JSON blobs under fixed
// keys. The version stamp lives in a third key; saves run inside WATCH/MULTI
// so a concurrent writer aborts the exec instead of being silently
// overwritten.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a store on top of an established Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load fetches the last-committed snapshot, or an empty one when the keys
// were never written. All three keys are read in one MGET so the snapshot
// and its version stamp can never straddle a concurrent save.
func (s *RedisStore) Load(ctx context.Context) (State, uint64, error) {
	state := State{Wallets: make(map[string]Wallet)}

	vals, err := s.client.MGet(ctx, redisWalletsKey, redisTxKey, redisVersionKey).Result()
	if err != nil {
		return State{}, 0, fmt.Errorf("load ledger state: %w", err)
	}

	if raw, ok := vals[0].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Wallets); err != nil {
			return State{}, 0, fmt.Errorf("decode wallets: %w", err)
		}
	}
	if raw, ok := vals[1].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Transactions); err != nil {
			return State{}, 0, fmt.Errorf("decode transactions: %w", err)
		}
	}

	var version uint64
	if raw, ok := vals[2].(string); ok && raw != "" {
		version, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return State{}, 0, fmt.Errorf("decode version: %w", err)
		}
	}

	return state, version, nil
}

// Save rewrites the snapshot under a compare-and-swap on the version key.
func (s *RedisStore) Save(ctx context.Context, state State, version uint64) error {
	wallets, err := json.Marshal(state.Wallets)
	if err != nil {
		return fmt.Errorf("encode wallets: %w", err)
	}
	transactions, err := json.Marshal(state.Transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, redisVersionKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisWalletsKey, wallets, 0)
			pipe.Set(ctx, redisTxKey, transactions, 0)
			pipe.Set(ctx, redisVersionKey, version+1, 0)
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txf, redisVersionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	return err
}
