package meetings

import "time"

// Status tracks the lifecycle of a meeting invitation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Meeting links an entrepreneur and an investor for a scheduled slot. The
// participant who did not create it owns the pending accept/decline decision.
type Meeting struct {
	ID             string
	Title          string
	StartsAt       time.Time
	EndsAt         time.Time
	AllDay         bool
	Status         Status
	EntrepreneurID string
	InvestorID     string
	CreatedByID    string
	Notes          string
	CreatedAt      time.Time
}
