package meetings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMeetingNotFound indicates the requested meeting does not exist.
var ErrMeetingNotFound = errors.New("meeting not found")

// Repository persists meetings.
type Repository interface {
	Create(ctx context.Context, meeting Meeting) error
	Get(ctx context.Context, id string) (Meeting, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	ListByParticipant(ctx context.Context, userID string) ([]Meeting, error)
}

// PostgresRepository stores meetings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed meeting repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a meeting record.
func (r *PostgresRepository) Create(ctx context.Context, meeting Meeting) error {
	meetingID, err := uuid.Parse(meeting.ID)
	if err != nil {
		return err
	}
	var endsAt *time.Time
	if !meeting.EndsAt.IsZero() {
		t := meeting.EndsAt.UTC()
		endsAt = &t
	}
	_, err = r.db.Exec(ctx, `INSERT INTO meetings (id, title, starts_at, ends_at, all_day, status, entrepreneur_id, investor_id, created_by_id, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		meetingID, meeting.Title, meeting.StartsAt.UTC(), endsAt, meeting.AllDay, string(meeting.Status),
		meeting.EntrepreneurID, meeting.InvestorID, meeting.CreatedByID, meeting.Notes, meeting.CreatedAt.UTC())
	return err
}

// Get fetches a meeting by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Meeting, error) {
	meetingID, err := uuid.Parse(id)
	if err != nil {
		return Meeting{}, ErrMeetingNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, title, starts_at, ends_at, all_day, status, entrepreneur_id, investor_id, created_by_id, notes, created_at
        FROM meetings WHERE id = $1`, meetingID)
	meeting, err := scanMeeting(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Meeting{}, ErrMeetingNotFound
	}
	return meeting, err
}

// UpdateStatus records the invitation response.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	meetingID, err := uuid.Parse(id)
	if err != nil {
		return ErrMeetingNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE meetings SET status = $1 WHERE id = $2`, string(status), meetingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

// ListByParticipant fetches meetings involving the user, soonest first.
func (r *PostgresRepository) ListByParticipant(ctx context.Context, userID string) ([]Meeting, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, starts_at, ends_at, all_day, status, entrepreneur_id, investor_id, created_by_id, notes, created_at
        FROM meetings WHERE entrepreneur_id = $1 OR investor_id = $1
        ORDER BY starts_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (Meeting, error) {
	var (
		id        uuid.UUID
		endsAt    *time.Time
		status    string
		startsAt  time.Time
		createdAt time.Time
		meeting   Meeting
	)
	if err := row.Scan(&id, &meeting.Title, &startsAt, &endsAt, &meeting.AllDay, &status,
		&meeting.EntrepreneurID, &meeting.InvestorID, &meeting.CreatedByID, &meeting.Notes, &createdAt); err != nil {
		return Meeting{}, err
	}
	meeting.ID = id.String()
	meeting.Status = Status(status)
	meeting.StartsAt = startsAt.UTC()
	if endsAt != nil {
		meeting.EndsAt = endsAt.UTC()
	}
	meeting.CreatedAt = createdAt.UTC()
	return meeting, nil
}
