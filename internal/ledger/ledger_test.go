package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(context.Background(), NewMemoryStore())
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return l
}

func TestDepositCreatesWalletAndRecord(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	tx, err := l.Deposit(ctx, "alice", 100, CurrencyUSD)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if tx.Type != TypeDeposit || tx.Status != StatusCompleted {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.ReceiverID != "alice" || tx.SenderID != "" {
		t.Fatalf("deposit should only carry a receiver: %+v", tx)
	}

	w, err := l.Wallet(ctx, "alice")
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if w.Balance != 100 {
		t.Fatalf("expected balance 100, got %d", w.Balance)
	}

	log := l.Transactions(ctx, Filter{})
	if len(log) != 1 {
		t.Fatalf("expected exactly one transaction, got %d", len(log))
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for _, amount := range []int64{0, -5} {
		if _, err := l.Deposit(ctx, "alice", amount, CurrencyUSD); !errors.Is(err, ErrAmountNotPositive) {
			t.Fatalf("amount %d: expected ErrAmountNotPositive, got %v", amount, err)
		}
	}

	if len(l.Transactions(ctx, Filter{})) != 0 {
		t.Fatal("invalid input must not be recorded")
	}
	if _, err := l.Wallet(ctx, "alice"); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("invalid input must not create a wallet, got %v", err)
	}
}

func TestWithdrawOverdraftRecordsFailure(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	SeedBalance(l, "alice", 50, CurrencyUSD)

	tx, err := l.Withdraw(ctx, "alice", 70, CurrencyUSD)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if tx.Status != StatusFailed || tx.Type != TypeWithdraw || tx.SenderID != "alice" {
		t.Fatalf("unexpected failure record: %+v", tx)
	}

	w, _ := l.Wallet(ctx, "alice")
	if w.Balance != 50 {
		t.Fatalf("overdraft must not change the balance, got %d", w.Balance)
	}

	failed := l.Transactions(ctx, Filter{Status: StatusFailed})
	if len(failed) != 1 {
		t.Fatalf("expected exactly one FAILED record, got %d", len(failed))
	}
}

func TestTransferConservesTotalBalance(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	SeedBalance(l, "alice", 1_000, CurrencyUSD)
	SeedBalance(l, "bob", 200, CurrencyUSD)

	tx, err := l.Transfer(ctx, "alice", "bob", 300, CurrencyUSD)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if tx.Status != StatusCompleted || tx.SenderID != "alice" || tx.ReceiverID != "bob" {
		t.Fatalf("unexpected record: %+v", tx)
	}

	a, _ := l.Wallet(ctx, "alice")
	b, _ := l.Wallet(ctx, "bob")
	if a.Balance != 700 || b.Balance != 500 {
		t.Fatalf("unexpected balances: alice=%d bob=%d", a.Balance, b.Balance)
	}
	if a.Balance+b.Balance != 1_200 {
		t.Fatalf("transfer must be balance-neutral, total=%d", a.Balance+b.Balance)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	SeedBalance(l, "alice", 50, CurrencyUSD)
	SeedBalance(l, "bob", 10, CurrencyUSD)

	tx, err := l.Transfer(ctx, "alice", "bob", 70, CurrencyUSD)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if tx.Status != StatusFailed || tx.SenderID != "alice" || tx.ReceiverID != "bob" || tx.Amount != 70 {
		t.Fatalf("unexpected failure record: %+v", tx)
	}

	a, _ := l.Wallet(ctx, "alice")
	b, _ := l.Wallet(ctx, "bob")
	if a.Balance != 50 || b.Balance != 10 {
		t.Fatalf("failed transfer must not move funds: alice=%d bob=%d", a.Balance, b.Balance)
	}

	log := l.Transactions(ctx, Filter{})
	if len(log) != 1 || log[0].Status != StatusFailed {
		t.Fatalf("expected exactly one FAILED record, got %+v", log)
	}
}

func TestTransferRequiresRecipient(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	SeedBalance(l, "alice", 100, CurrencyUSD)

	if _, err := l.Transfer(ctx, "alice", "", 10, CurrencyUSD); !errors.Is(err, ErrRecipientRequired) {
		t.Fatalf("expected ErrRecipientRequired, got %v", err)
	}
	if len(l.Transactions(ctx, Filter{})) != 0 {
		t.Fatal("invalid input must not be recorded")
	}
}

func TestOperationSequenceNewestFirst(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Deposit(ctx, "alice", 100, CurrencyUSD); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := l.Withdraw(ctx, "alice", 40, CurrencyUSD); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := l.Transfer(ctx, "alice", "bob", 30, CurrencyUSD); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	a, _ := l.Wallet(ctx, "alice")
	if a.Balance != 30 {
		t.Fatalf("expected final balance 30, got %d", a.Balance)
	}

	log := l.Transactions(ctx, Filter{})
	if len(log) != 3 {
		t.Fatalf("expected three records, got %d", len(log))
	}
	wantOrder := []TxType{TypeTransfer, TypeWithdraw, TypeDeposit}
	for i, want := range wantOrder {
		if log[i].Type != want || log[i].Status != StatusCompleted {
			t.Fatalf("position %d: expected COMPLETED %s, got %+v", i, want, log[i])
		}
	}
}

func TestBalancesNeverNegative(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	l.Deposit(ctx, "alice", 80, CurrencyUSD)
	l.Withdraw(ctx, "alice", 100, CurrencyUSD)
	l.Transfer(ctx, "alice", "bob", 90, CurrencyUSD)
	l.Transfer(ctx, "alice", "bob", 30, CurrencyUSD)
	l.Withdraw(ctx, "bob", 60, CurrencyUSD)
	l.FundDeal(ctx, "bob", FundDealInput{EntrepreneurID: "carol", Amount: 40, Currency: CurrencyUSD})

	for _, id := range []string{"alice", "bob", "carol"} {
		w, err := l.Wallet(ctx, id)
		if err != nil {
			t.Fatalf("wallet %s: %v", id, err)
		}
		if w.Balance < 0 {
			t.Fatalf("wallet %s driven negative: %d", id, w.Balance)
		}
	}
}

func TestFundDealCarriesDealNote(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	SeedBalance(l, "ivan", 10_000, CurrencyUSD)

	tx, err := l.FundDeal(ctx, "ivan", FundDealInput{
		EntrepreneurID: "erin",
		Amount:         2_500,
		Currency:       CurrencyUSD,
		DealTitle:      "Series A",
	})
	if err != nil {
		t.Fatalf("fund deal: %v", err)
	}
	if tx.Type != TypeFunding || tx.Note != "Deal: Series A" {
		t.Fatalf("unexpected record: %+v", tx)
	}

	erin, _ := l.Wallet(ctx, "erin")
	if erin.Balance != 2_500 {
		t.Fatalf("expected entrepreneur balance 2500, got %d", erin.Balance)
	}
}

func TestCurrencyMismatchRecordsFailureWithoutRelabel(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	SeedBalance(l, "alice", 500, CurrencyUSD)

	tx, err := l.Deposit(ctx, "alice", 100, CurrencyPKR)
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	if tx.Status != StatusFailed {
		t.Fatalf("mismatch must be recorded as FAILED: %+v", tx)
	}

	w, _ := l.Wallet(ctx, "alice")
	if w.Currency != CurrencyUSD || w.Balance != 500 {
		t.Fatalf("wallet must not be relabeled or mutated: %+v", w)
	}
}

func TestUnsupportedCurrencyRejected(t *testing.T) {
	l := newTestLedger(t)

	if _, err := l.Deposit(context.Background(), "alice", 100, Currency("EUR")); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	l, err := New(ctx, store)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if _, err := l.Deposit(ctx, "alice", 250, CurrencyUSD); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	reloaded, err := New(ctx, store)
	if err != nil {
		t.Fatalf("reload ledger: %v", err)
	}
	w, err := reloaded.Wallet(ctx, "alice")
	if err != nil {
		t.Fatalf("wallet after reload: %v", err)
	}
	if w.Balance != 250 {
		t.Fatalf("expected balance 250 after reload, got %d", w.Balance)
	}
	if len(reloaded.Transactions(ctx, Filter{})) != 1 {
		t.Fatal("transaction log lost across reload")
	}
}

// failingStore wraps a store and fails the next save.
type failingStore struct {
	Store
	fail error
}

func (s *failingStore) Save(ctx context.Context, state State, version uint64) error {
	if s.fail != nil {
		err := s.fail
		s.fail = nil
		return err
	}
	return s.Store.Save(ctx, state, version)
}

func TestSaveFailureRollsBackMutation(t *testing.T) {
	store := &failingStore{Store: NewMemoryStore()}
	ctx := context.Background()

	l, err := New(ctx, store)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if _, err := l.Deposit(ctx, "alice", 100, CurrencyUSD); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	store.fail = errors.New("disk full")
	if _, err := l.Deposit(ctx, "alice", 50, CurrencyUSD); err == nil {
		t.Fatal("expected save failure to surface")
	}

	w, _ := l.Wallet(ctx, "alice")
	if w.Balance != 100 {
		t.Fatalf("failed save must roll back, balance=%d", w.Balance)
	}
	if len(l.Transactions(ctx, Filter{})) != 1 {
		t.Fatal("failed save must not leave a record behind")
	}
}

func TestConcurrentInstanceConflictSurfaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := New(ctx, store)
	if err != nil {
		t.Fatalf("first instance: %v", err)
	}
	second, err := New(ctx, store)
	if err != nil {
		t.Fatalf("second instance: %v", err)
	}

	if _, err := first.Deposit(ctx, "alice", 100, CurrencyUSD); err != nil {
		t.Fatalf("first deposit: %v", err)
	}

	// The second instance still holds the version it loaded at startup.
	if _, err := second.Deposit(ctx, "alice", 100, CurrencyUSD); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// The conflict re-syncs the instance with the winning state, so the
	// next operation goes through instead of conflicting forever.
	if _, err := second.Deposit(ctx, "alice", 50, CurrencyUSD); err != nil {
		t.Fatalf("deposit after conflict: %v", err)
	}
	w, err := second.Wallet(ctx, "alice")
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if w.Balance != 150 {
		t.Fatalf("expected balance 150 after re-sync, got %d", w.Balance)
	}
}

func TestDepositOverflowRecordsFailure(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Deposit(ctx, "alice", math.MaxInt64, CurrencyUSD); err != nil {
		t.Fatalf("first deposit: %v", err)
	}

	tx, err := l.Deposit(ctx, "alice", 1, CurrencyUSD)
	if !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
	if tx.Status != StatusFailed {
		t.Fatalf("expected FAILED record, got %s", tx.Status)
	}

	w, err := l.Wallet(ctx, "alice")
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if w.Balance != math.MaxInt64 {
		t.Fatalf("balance changed on rejected deposit: %d", w.Balance)
	}
	if w.Balance < 0 {
		t.Fatalf("balance went negative: %d", w.Balance)
	}
}

func TestTransferOverflowLeavesBalancesUntouched(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	SeedBalance(l, "alice", 100, CurrencyUSD)
	SeedBalance(l, "bob", math.MaxInt64, CurrencyUSD)

	tx, err := l.Transfer(ctx, "alice", "bob", 1, CurrencyUSD)
	if !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
	if tx.Status != StatusFailed {
		t.Fatalf("expected FAILED record, got %s", tx.Status)
	}

	alice, _ := l.Wallet(ctx, "alice")
	bob, _ := l.Wallet(ctx, "bob")
	if alice.Balance != 100 || bob.Balance != math.MaxInt64 {
		t.Fatalf("balances changed: alice=%d bob=%d", alice.Balance, bob.Balance)
	}
}

func TestSelfTransferAtMaxBalance(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	SeedBalance(l, "alice", math.MaxInt64, CurrencyUSD)

	if _, err := l.Transfer(ctx, "alice", "alice", 1, CurrencyUSD); err != nil {
		t.Fatalf("self transfer nets to zero and cannot overflow: %v", err)
	}
	w, _ := l.Wallet(ctx, "alice")
	if w.Balance != math.MaxInt64 {
		t.Fatalf("expected unchanged balance, got %d", w.Balance)
	}
}
