package ledger

import (
	"context"
	"sync"
)

// MemoryStore keeps ledger state in process memory. Used by tests and by the
// development fallback when neither Postgres nor Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	state   State
	version uint64
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored snapshot.
func (s *MemoryStore) Load(_ context.Context) (State, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state), s.version, nil
}

// Save replaces the snapshot when the version stamp still matches.
func (s *MemoryStore) Save(_ context.Context, state State, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		return ErrVersionConflict
	}
	s.state = copyState(state)
	s.version = version + 1
	return nil
}

func copyState(state State) State {
	out := State{
		Wallets:      make(map[string]Wallet, len(state.Wallets)),
		Transactions: make([]Transaction, len(state.Transactions)),
	}
	for id, w := range state.Wallets {
		out.Wallets[id] = w
	}
	copy(out.Transactions, state.Transactions)
	return out
}
