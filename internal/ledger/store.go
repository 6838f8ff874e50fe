package ledger

import (
	"context"
	"errors"
)

// ErrVersionConflict indicates another writer committed state since this
// instance last loaded it. The operation is rolled back; there is no retry.
var ErrVersionConflict = errors.New("ledger state version conflict")

// State is the full persisted snapshot: every wallet plus the transaction
// log, newest first. Stores rewrite it in full on every save.
type State struct {
	Wallets      map[string]Wallet `json:"wallets"`
	Transactions []Transaction     `json:"transactions"`
}

// Store is the durable backend for ledger state. Load returns the
// last-committed snapshot with its version stamp (empty state, version 0 when
// nothing was ever saved). Save replaces the snapshot iff the stored version
// still equals the provided one, bumping it by one; otherwise it returns
// ErrVersionConflict. The compare-and-swap is what keeps concurrent service
// instances from silently overwriting each other.
type Store interface {
	Load(ctx context.Context) (State, uint64, error)
	Save(ctx context.Context, state State, version uint64) error
}
