package identity

import "time"

const (
	// RoleEntrepreneur marks a user raising capital.
	RoleEntrepreneur = "entrepreneur"
	// RoleInvestor marks a user deploying capital.
	RoleInvestor = "investor"
)

// User represents a registered platform member. The ID doubles as the wallet
// key in the ledger.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         string
	Bio          string
	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
}

// Credentials carry a login attempt.
type Credentials struct {
	Email    string
	Password string
}
