package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venturebridge/venturebridge/internal/notification"
)

var (
	// ErrNotParticipant indicates the actor is not part of the meeting.
	ErrNotParticipant = errors.New("not a meeting participant")

	// ErrAlreadyResponded indicates the invitation left the pending state.
	ErrAlreadyResponded = errors.New("meeting already responded to")
)

// Service manages meeting scheduling between entrepreneurs and investors.
type Service struct {
	repo     Repository
	notifier notification.Notifier
}

// NewService builds a meeting service.
func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// ScheduleInput captures a meeting invitation.
type ScheduleInput struct {
	Title          string
	StartsAt       time.Time
	EndsAt         time.Time
	AllDay         bool
	EntrepreneurID string
	InvestorID     string
	Notes          string
}

// Schedule creates a pending meeting. The actor must be one of the two
// participants; the other side receives the invitation.
func (s *Service) Schedule(ctx context.Context, actorID string, input ScheduleInput) (Meeting, error) {
	if input.Title == "" {
		return Meeting{}, errors.New("title is required")
	}
	if input.StartsAt.IsZero() {
		return Meeting{}, errors.New("start time is required")
	}
	if !input.EndsAt.IsZero() && !input.EndsAt.After(input.StartsAt) {
		return Meeting{}, errors.New("end time must be after start time")
	}
	if input.EntrepreneurID == "" || input.InvestorID == "" {
		return Meeting{}, errors.New("both participants are required")
	}
	if actorID != input.EntrepreneurID && actorID != input.InvestorID {
		return Meeting{}, ErrNotParticipant
	}

	meeting := Meeting{
		ID:             uuid.NewString(),
		Title:          input.Title,
		StartsAt:       input.StartsAt.UTC(),
		AllDay:         input.AllDay,
		Status:         StatusPending,
		EntrepreneurID: input.EntrepreneurID,
		InvestorID:     input.InvestorID,
		CreatedByID:    actorID,
		Notes:          input.Notes,
		CreatedAt:      time.Now().UTC(),
	}
	if !input.EndsAt.IsZero() {
		meeting.EndsAt = input.EndsAt.UTC()
	}

	if err := s.repo.Create(ctx, meeting); err != nil {
		return Meeting{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindMeetingScheduled,
			Destination: meeting.counterpartOf(actorID),
			Body:        fmt.Sprintf("%s invited you to %q on %s", actorID, meeting.Title, meeting.StartsAt.Format(time.RFC3339)),
		})
	}

	return meeting, nil
}

// Respond records the invited counterparty's accept/decline decision.
func (s *Service) Respond(ctx context.Context, actorID, meetingID string, accept bool) (Meeting, error) {
	meeting, err := s.repo.Get(ctx, meetingID)
	if err != nil {
		return Meeting{}, err
	}
	if actorID != meeting.EntrepreneurID && actorID != meeting.InvestorID {
		return Meeting{}, ErrNotParticipant
	}
	if actorID == meeting.CreatedByID {
		return Meeting{}, errors.New("creator cannot respond to own invitation")
	}
	if meeting.Status != StatusPending {
		return Meeting{}, ErrAlreadyResponded
	}

	status := StatusDeclined
	if accept {
		status = StatusAccepted
	}
	if err := s.repo.UpdateStatus(ctx, meeting.ID, status); err != nil {
		return Meeting{}, err
	}
	meeting.Status = status
	return meeting, nil
}

// ListForUser returns meetings involving the user, soonest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Meeting, error) {
	return s.repo.ListByParticipant(ctx, userID)
}

func (m Meeting) counterpartOf(userID string) string {
	if m.EntrepreneurID == userID {
		return m.InvestorID
	}
	return m.EntrepreneurID
}
