package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venturebridge/venturebridge/internal/ledger"
)

// Repository persists funded deals.
type Repository interface {
	Create(ctx context.Context, deal Deal) error
	ListByParticipant(ctx context.Context, userID string) ([]Deal, error)
}

// PostgresRepository stores deals in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a funded deal record.
func (r *PostgresRepository) Create(ctx context.Context, deal Deal) error {
	dealID, err := uuid.Parse(deal.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO deals (id, title, entrepreneur_id, investor_id, amount, currency, transaction_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		dealID, deal.Title, deal.EntrepreneurID, deal.InvestorID, deal.Amount, string(deal.Currency), deal.TransactionID, deal.CreatedAt.UTC())
	return err
}

// ListByParticipant fetches deals where the user is investor or entrepreneur,
// newest first.
func (r *PostgresRepository) ListByParticipant(ctx context.Context, userID string) ([]Deal, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, entrepreneur_id, investor_id, amount, currency, transaction_id, created_at
        FROM deals WHERE entrepreneur_id = $1 OR investor_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeals(rows)
}

func scanDeals(rows pgx.Rows) ([]Deal, error) {
	var deals []Deal
	for rows.Next() {
		var (
			id        uuid.UUID
			currency  string
			createdAt time.Time
			deal      Deal
		)
		if err := rows.Scan(&id, &deal.Title, &deal.EntrepreneurID, &deal.InvestorID, &deal.Amount, &currency, &deal.TransactionID, &createdAt); err != nil {
			return nil, err
		}
		deal.ID = id.String()
		deal.Currency = ledger.Currency(currency)
		deal.CreatedAt = createdAt.UTC()
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}
