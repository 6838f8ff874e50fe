package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/venturebridge/venturebridge/internal/identity"
	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/notification"
)

type testNotifier struct {
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return nil
}

func setup(t *testing.T) (*Service, *ledger.Ledger, identity.User, *testNotifier) {
	t.Helper()
	ctx := context.Background()

	led, err := ledger.New(ctx, ledger.NewMemoryStore())
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}

	users := identity.NewMemoryRepository()
	ids := identity.NewService(users)
	recipient, err := ids.Register(ctx, identity.RegisterInput{
		Name:     "Erin",
		Email:    "erin@example.com",
		Password: "long-enough",
		Role:     identity.RoleEntrepreneur,
	})
	if err != nil {
		t.Fatalf("register recipient: %v", err)
	}

	notifier := &testNotifier{}
	return NewService(led, users, notifier), led, recipient, notifier
}

func TestTransferSuccess(t *testing.T) {
	svc, led, recipient, notifier := setup(t)
	ctx := context.Background()

	ledger.SeedBalance(led, "ivan", 10_000, ledger.CurrencyUSD)

	tx, err := svc.Transfer(ctx, "ivan", TransferInput{ToUserID: recipient.ID, Amount: 2_000, Currency: ledger.CurrencyUSD})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if tx.Status != ledger.StatusCompleted {
		t.Fatalf("unexpected status: %+v", tx)
	}

	from, _ := led.Wallet(ctx, "ivan")
	to, _ := led.Wallet(ctx, recipient.ID)
	if from.Balance != 8_000 || to.Balance != 2_000 {
		t.Fatalf("unexpected balances: from=%d to=%d", from.Balance, to.Balance)
	}

	if notifier.last.Kind != notification.KindTransferReceived {
		t.Fatal("expected notification to be sent")
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	svc, led, recipient, notifier := setup(t)
	ctx := context.Background()

	ledger.SeedBalance(led, "ivan", 100, ledger.CurrencyUSD)

	tx, err := svc.Transfer(ctx, "ivan", TransferInput{ToUserID: recipient.ID, Amount: 500, Currency: ledger.CurrencyUSD})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if tx.Status != ledger.StatusFailed {
		t.Fatalf("expected FAILED record, got %+v", tx)
	}
	if notifier.last.Kind != "" {
		t.Fatal("no notification expected for a failed transfer")
	}
}

func TestTransferUnknownRecipient(t *testing.T) {
	svc, led, _, _ := setup(t)
	ctx := context.Background()

	ledger.SeedBalance(led, "ivan", 100, ledger.CurrencyUSD)

	if _, err := svc.Transfer(ctx, "ivan", TransferInput{ToUserID: "nobody", Amount: 50}); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
	if len(led.Transactions(ctx, ledger.Filter{})) != 0 {
		t.Fatal("unknown recipient must not produce a ledger record")
	}
}
