package wallet

import (
	"context"

	"github.com/venturebridge/venturebridge/internal/ledger"
)

// Service exposes self-directed wallet operations over the ledger core. The
// acting user id is always an explicit parameter; nothing here reads ambient
// identity state.
type Service struct {
	ledger *ledger.Ledger
}

// NewService builds a wallet service instance.
func NewService(l *ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// AmountInput carries a self-directed amount operation.
type AmountInput struct {
	Amount   int64
	Currency ledger.Currency
}

// Deposit credits the actor's wallet.
func (s *Service) Deposit(ctx context.Context, actorID string, input AmountInput) (ledger.Transaction, error) {
	return s.ledger.Deposit(ctx, actorID, input.Amount, input.Currency)
}

// Withdraw debits the actor's wallet.
func (s *Service) Withdraw(ctx context.Context, actorID string, input AmountInput) (ledger.Transaction, error) {
	return s.ledger.Withdraw(ctx, actorID, input.Amount, input.Currency)
}

// Get returns the wallet for a user.
func (s *Service) Get(ctx context.Context, userID string) (ledger.Wallet, error) {
	return s.ledger.Wallet(ctx, userID)
}

// History lists the transactions the user participated in, newest first.
func (s *Service) History(ctx context.Context, userID string, filter ledger.Filter) []ledger.Transaction {
	filter.ParticipantID = userID
	return s.ledger.Transactions(ctx, filter)
}
