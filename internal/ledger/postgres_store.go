package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stateSlot keys the single ledger_state row holding the full snapshot.
const stateSlot = "primary"

// PostgresStore persists the snapshot as jsonb columns in a single
// ledger_state row. The version column provides the compare-and-swap: an
// update that matches zero rows means another writer committed first.
//
// Schema:
//
//	CREATE TABLE ledger_state (
//	    slot         text PRIMARY KEY,
//	    wallets      jsonb  NOT NULL,
//	    transactions jsonb  NOT NULL,
//	    version      bigint NOT NULL
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load fetches the snapshot row, or an empty state when it does not exist yet.
func (s *PostgresStore) Load(ctx context.Context) (State, uint64, error) {
	state := State{Wallets: make(map[string]Wallet)}

	var (
		wallets      []byte
		transactions []byte
		version      int64
	)
	row := s.db.QueryRow(ctx, `SELECT wallets, transactions, version FROM ledger_state WHERE slot = $1`, stateSlot)
	if err := row.Scan(&wallets, &transactions, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return state, 0, nil
		}
		return State{}, 0, fmt.Errorf("load ledger_state: %w", err)
	}

	if err := json.Unmarshal(wallets, &state.Wallets); err != nil {
		return State{}, 0, fmt.Errorf("decode wallets: %w", err)
	}
	if err := json.Unmarshal(transactions, &state.Transactions); err != nil {
		return State{}, 0, fmt.Errorf("decode transactions: %w", err)
	}

	return state, uint64(version), nil
}

// Save rewrites the snapshot under a compare-and-swap on the version column.
func (s *PostgresStore) Save(ctx context.Context, state State, version uint64) error {
	wallets, err := json.Marshal(state.Wallets)
	if err != nil {
		return fmt.Errorf("encode wallets: %w", err)
	}
	transactions, err := json.Marshal(state.Transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	if version == 0 {
		cmd, err := s.db.Exec(ctx, `INSERT INTO ledger_state (slot, wallets, transactions, version)
            VALUES ($1, $2, $3, 1)
            ON CONFLICT (slot) DO NOTHING`, stateSlot, wallets, transactions)
		if err != nil {
			return fmt.Errorf("insert ledger_state: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	cmd, err := s.db.Exec(ctx, `UPDATE ledger_state
        SET wallets = $1, transactions = $2, version = $3
        WHERE slot = $4 AND version = $5`, wallets, transactions, version+1, stateSlot, version)
	if err != nil {
		return fmt.Errorf("update ledger_state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}
