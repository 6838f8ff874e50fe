package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/venturebridge/venturebridge/internal/identity"
	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/notification"
)

// ErrRecipientNotFound indicates the transfer recipient is not a registered user.
var ErrRecipientNotFound = errors.New("recipient not found")

// Service posts peer-to-peer transfers through the ledger core.
type Service struct {
	ledger   *ledger.Ledger
	users    identity.Repository
	notifier notification.Notifier
}

// NewService constructs a payment service.
func NewService(l *ledger.Ledger, users identity.Repository, notifier notification.Notifier) *Service {
	return &Service{ledger: l, users: users, notifier: notifier}
}

// TransferInput captures the data needed to move funds between users.
type TransferInput struct {
	ToUserID string
	Amount   int64
	Currency ledger.Currency
}

// Transfer moves funds from the acting user to a registered recipient. The
// ledger applies the two-sided balance change atomically; a rejection comes
// back as a FAILED transaction record plus a sentinel error.
func (s *Service) Transfer(ctx context.Context, actorID string, input TransferInput) (ledger.Transaction, error) {
	if input.ToUserID == "" {
		return ledger.Transaction{}, ledger.ErrRecipientRequired
	}

	recipient, err := s.users.FindByID(ctx, input.ToUserID)
	if err != nil {
		return ledger.Transaction{}, ErrRecipientNotFound
	}

	tx, err := s.ledger.Transfer(ctx, actorID, recipient.ID, input.Amount, input.Currency)
	if err != nil {
		return tx, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: recipient.ID,
			Body:        fmt.Sprintf("You received %d %s from %s", tx.Amount, tx.Currency, actorID),
		})
	}

	return tx, nil
}
