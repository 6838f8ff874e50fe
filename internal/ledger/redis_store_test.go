package ledger

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisStore(client)
}

func TestRedisStoreLoadEmpty(t *testing.T) {
	store := setupRedisStore(t)

	state, version, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if version != 0 {
		t.Fatalf("expected version 0, got %d", version)
	}
	if len(state.Wallets) != 0 || len(state.Transactions) != 0 {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	l, err := New(ctx, store)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if _, err := l.Deposit(ctx, "alice", 750, CurrencyUSD); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := l.Transfer(ctx, "alice", "bob", 250, CurrencyUSD); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	state, version, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2 after two commits, got %d", version)
	}
	if state.Wallets["alice"].Balance != 500 || state.Wallets["bob"].Balance != 250 {
		t.Fatalf("unexpected persisted balances: %+v", state.Wallets)
	}
	if len(state.Transactions) != 2 || state.Transactions[0].Type != TypeTransfer {
		t.Fatalf("expected newest-first log, got %+v", state.Transactions)
	}
}

func TestRedisStoreLoadMatchesSavedVersion(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	for i := uint64(0); i < 3; i++ {
		state := State{Wallets: map[string]Wallet{
			"alice": {UserID: "alice", Balance: int64(i + 1), Currency: CurrencyUSD},
		}}
		if err := store.Save(ctx, state, i); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}

		// The snapshot and its version stamp come back from one read, so
		// they must always correspond to the same committed save.
		loaded, version, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if version != i+1 {
			t.Fatalf("expected version %d, got %d", i+1, version)
		}
		if loaded.Wallets["alice"].Balance != int64(i+1) {
			t.Fatalf("version %d paired with stale wallets: %+v", version, loaded.Wallets)
		}
	}
}

func TestRedisStoreVersionConflict(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	state := State{Wallets: map[string]Wallet{"alice": {UserID: "alice", Balance: 10, Currency: CurrencyUSD}}}
	if err := store.Save(ctx, state, 0); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// A stale writer still holding version 0 must be rejected.
	if err := store.Save(ctx, state, 0); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	if err := store.Save(ctx, state, 1); err != nil {
		t.Fatalf("save with current version: %v", err)
	}
}
