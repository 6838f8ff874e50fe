package funding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venturebridge/venturebridge/internal/identity"
	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/notification"
)

// ErrNotEntrepreneur indicates the funding target is not a registered entrepreneur.
var ErrNotEntrepreneur = errors.New("recipient is not an entrepreneur")

// Service posts deal capital through the ledger and records the funded deal.
type Service struct {
	ledger   *ledger.Ledger
	users    identity.Repository
	deals    Repository
	notifier notification.Notifier
}

// NewService constructs a funding service.
func NewService(l *ledger.Ledger, users identity.Repository, deals Repository, notifier notification.Notifier) *Service {
	return &Service{ledger: l, users: users, deals: deals, notifier: notifier}
}

// FundInput captures an investor's capital commitment to a deal.
type FundInput struct {
	EntrepreneurID string
	Amount         int64
	Currency       ledger.Currency
	DealTitle      string
}

// FundResult bundles the settled ledger record with the stored deal.
type FundResult struct {
	Transaction ledger.Transaction
	Deal        Deal
}

// Fund moves capital from the acting investor to the entrepreneur. The
// ledger posting and the deal record share one transaction id; the deal is
// only recorded for COMPLETED postings.
func (s *Service) Fund(ctx context.Context, actorID string, input FundInput) (FundResult, error) {
	if input.EntrepreneurID == "" {
		return FundResult{}, ledger.ErrRecipientRequired
	}

	entrepreneur, err := s.users.FindByID(ctx, input.EntrepreneurID)
	if err != nil {
		return FundResult{}, ErrNotEntrepreneur
	}
	if entrepreneur.Role != identity.RoleEntrepreneur {
		return FundResult{}, ErrNotEntrepreneur
	}

	tx, err := s.ledger.FundDeal(ctx, actorID, ledger.FundDealInput{
		EntrepreneurID: entrepreneur.ID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		DealTitle:      input.DealTitle,
	})
	if err != nil {
		return FundResult{Transaction: tx}, err
	}

	deal := Deal{
		ID:             uuid.NewString(),
		Title:          input.DealTitle,
		EntrepreneurID: entrepreneur.ID,
		InvestorID:     actorID,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		TransactionID:  tx.ID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.deals.Create(ctx, deal); err != nil {
		// The ledger posting is committed; the deal record is secondary
		// metadata, so surface the error without compensating.
		return FundResult{Transaction: tx}, fmt.Errorf("record deal: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindDealFunded,
			Destination: entrepreneur.ID,
			Body:        fmt.Sprintf("%s funded %q with %d %s", actorID, deal.Title, deal.Amount, deal.Currency),
		})
	}

	return FundResult{Transaction: tx, Deal: deal}, nil
}

// Deals lists funded deals the user participated in, newest first.
func (s *Service) Deals(ctx context.Context, userID string) ([]Deal, error) {
	return s.deals.ListByParticipant(ctx, userID)
}
