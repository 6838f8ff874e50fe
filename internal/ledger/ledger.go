package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrActorRequired occurs when an operation is invoked without an acting
	// user identifier.
	ErrActorRequired = errors.New("acting user id is required")

	// ErrAmountNotPositive rejects zero or negative amounts. Nothing is
	// recorded for invalid input.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrRecipientRequired rejects transfers and fundings without a receiver.
	ErrRecipientRequired = errors.New("recipient id is required")

	// ErrUnsupportedCurrency rejects currency codes outside the enumeration.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrCurrencyMismatch occurs when an operation names a currency different
	// from the wallet's. The wallet is never relabeled; the attempt is
	// recorded as FAILED.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInsufficientFunds occurs when the source wallet lacks balance to
	// cover the requested amount. The attempt is recorded as FAILED and
	// balances stay untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceOverflow occurs when a credit would push the receiving
	// balance past the int64 ceiling. Allowing the addition to wrap would
	// turn the balance negative, so the attempt is recorded as FAILED and
	// balances stay untouched.
	ErrBalanceOverflow = errors.New("balance overflow")

	// ErrWalletNotFound indicates the user never participated in any
	// committed operation.
	ErrWalletNotFound = errors.New("wallet not found")
)

// Ledger owns the wallet mapping and the append-only transaction log. Every
// mutation is applied as a single in-memory transition under the mutex and
// written through the Store before the operation returns; a failed save rolls
// the transition back so memory and durable state never diverge.
type Ledger struct {
	store Store

	mu      sync.RWMutex
	wallets map[string]Wallet
	log     []Transaction
	version uint64
}

// New builds a ledger primed with the last-committed state from the store.
func New(ctx context.Context, store Store) (*Ledger, error) {
	state, version, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger state: %w", err)
	}
	if state.Wallets == nil {
		state.Wallets = make(map[string]Wallet)
	}
	return &Ledger{
		store:   store,
		wallets: state.Wallets,
		log:     state.Transactions,
		version: version,
	}, nil
}

// Deposit credits the acting user's wallet, creating it when absent.
// Deposits cannot fail once validated: the only recorded failure is a
// currency mismatch against an existing wallet.
func (l *Ledger) Deposit(ctx context.Context, actorID string, amount int64, currency Currency) (Transaction, error) {
	if actorID == "" {
		return Transaction{}, ErrActorRequired
	}
	if amount <= 0 {
		return Transaction{}, ErrAmountNotPositive
	}
	currency, err := ParseCurrency(string(currency))
	if err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	wallets := cloneWallets(l.wallets)
	w := ensureWallet(wallets, actorID, currency)

	if w.Currency != currency {
		tx := newTx(TypeDeposit, amount, currency, "", actorID, "", StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrCurrencyMismatch
	}

	if w.Balance > math.MaxInt64-amount {
		tx := newTx(TypeDeposit, amount, currency, "", actorID, "", StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrBalanceOverflow
	}

	w.Balance += amount
	wallets[actorID] = w

	tx := newTx(TypeDeposit, amount, currency, "", actorID, "", StatusCompleted)
	if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Withdraw debits the acting user's wallet. An overdraft attempt leaves the
// balance untouched and records a FAILED transaction.
func (l *Ledger) Withdraw(ctx context.Context, actorID string, amount int64, currency Currency) (Transaction, error) {
	if actorID == "" {
		return Transaction{}, ErrActorRequired
	}
	if amount <= 0 {
		return Transaction{}, ErrAmountNotPositive
	}
	currency, err := ParseCurrency(string(currency))
	if err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	wallets := cloneWallets(l.wallets)
	w := ensureWallet(wallets, actorID, currency)

	if w.Currency != currency {
		tx := newTx(TypeWithdraw, amount, currency, actorID, "", "", StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrCurrencyMismatch
	}

	if w.Balance < amount {
		tx := newTx(TypeWithdraw, amount, currency, actorID, "", "", StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrInsufficientFunds
	}

	w.Balance -= amount
	wallets[actorID] = w

	tx := newTx(TypeWithdraw, amount, currency, actorID, "", "", StatusCompleted)
	if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Transfer moves funds from the acting user to another user as one atomic
// transition: no reader of wallet state observes the debit without the
// credit. The receiver's wallet is created lazily when absent.
func (l *Ledger) Transfer(ctx context.Context, actorID, toUserID string, amount int64, currency Currency) (Transaction, error) {
	return l.move(ctx, TypeTransfer, actorID, toUserID, amount, currency, "")
}

// FundDealInput captures a deal-capital posting from investor to entrepreneur.
type FundDealInput struct {
	EntrepreneurID string
	Amount         int64
	Currency       Currency
	DealTitle      string
}

// FundDeal posts deal capital from the acting investor to an entrepreneur.
// Identical to Transfer except for the FUNDING type and the optional deal
// reference note.
func (l *Ledger) FundDeal(ctx context.Context, actorID string, input FundDealInput) (Transaction, error) {
	note := ""
	if input.DealTitle != "" {
		note = fmt.Sprintf("Deal: %s", input.DealTitle)
	}
	return l.move(ctx, TypeFunding, actorID, input.EntrepreneurID, input.Amount, input.Currency, note)
}

func (l *Ledger) move(ctx context.Context, kind TxType, fromID, toID string, amount int64, currency Currency, note string) (Transaction, error) {
	if fromID == "" {
		return Transaction{}, ErrActorRequired
	}
	if toID == "" {
		return Transaction{}, ErrRecipientRequired
	}
	if amount <= 0 {
		return Transaction{}, ErrAmountNotPositive
	}
	currency, err := ParseCurrency(string(currency))
	if err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	wallets := cloneWallets(l.wallets)
	from := ensureWallet(wallets, fromID, currency)
	to := ensureWallet(wallets, toID, currency)

	if from.Currency != currency || to.Currency != currency {
		tx := newTx(kind, amount, currency, fromID, toID, note, StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrCurrencyMismatch
	}

	if from.Balance < amount {
		tx := newTx(kind, amount, currency, fromID, toID, note, StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrInsufficientFunds
	}

	// A self-directed move nets to zero, so only a distinct receiver can
	// overflow.
	if fromID != toID && to.Balance > math.MaxInt64-amount {
		tx := newTx(kind, amount, currency, fromID, toID, note, StatusFailed)
		if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
			return Transaction{}, err
		}
		return tx, ErrBalanceOverflow
	}

	from.Balance -= amount
	wallets[fromID] = from
	// Re-read so a self-directed move nets to zero instead of minting funds.
	to = wallets[toID]
	to.Balance += amount
	wallets[toID] = to

	tx := newTx(kind, amount, currency, fromID, toID, note, StatusCompleted)
	if err := l.commit(ctx, wallets, prependTx(l.log, tx)); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Wallet returns the current wallet for the user, or ErrWalletNotFound when
// the user never participated in a committed operation.
func (l *Ledger) Wallet(_ context.Context, userID string) (Wallet, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	w, ok := l.wallets[userID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

// Filter narrows a transaction listing. Zero values match everything.
type Filter struct {
	ParticipantID string
	Type          TxType
	Status        TxStatus
	Limit         int
}

// Transactions returns the audit log newest first, optionally filtered.
func (l *Ledger) Transactions(_ context.Context, filter Filter) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Transaction, 0, len(l.log))
	for _, tx := range l.log {
		if filter.ParticipantID != "" && tx.SenderID != filter.ParticipantID && tx.ReceiverID != filter.ParticipantID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		out = append(out, tx)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// commit writes the candidate state through the store and only then makes it
// visible in memory. Callers hold the write lock. A version conflict rejects
// the operation but re-reads the winning writer's state, so the instance is
// not stuck conflicting forever.
func (l *Ledger) commit(ctx context.Context, wallets map[string]Wallet, log []Transaction) error {
	if err := l.store.Save(ctx, State{Wallets: wallets, Transactions: log}, l.version); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			if state, version, lerr := l.store.Load(ctx); lerr == nil {
				if state.Wallets == nil {
					state.Wallets = make(map[string]Wallet)
				}
				l.wallets = state.Wallets
				l.log = state.Transactions
				l.version = version
			}
		}
		return fmt.Errorf("save ledger state: %w", err)
	}
	l.wallets = wallets
	l.log = log
	l.version++
	return nil
}

// ensureWallet creates a zero-balance wallet on first reference. The wallet
// adopts the currency of the operation that created it.
func ensureWallet(wallets map[string]Wallet, userID string, currency Currency) Wallet {
	w, ok := wallets[userID]
	if !ok {
		w = Wallet{UserID: userID, Balance: 0, Currency: currency}
		wallets[userID] = w
	}
	return w
}

func cloneWallets(wallets map[string]Wallet) map[string]Wallet {
	out := make(map[string]Wallet, len(wallets))
	for id, w := range wallets {
		out[id] = w
	}
	return out
}

func prependTx(log []Transaction, tx Transaction) []Transaction {
	out := make([]Transaction, 0, len(log)+1)
	out = append(out, tx)
	return append(out, log...)
}

func newTx(kind TxType, amount int64, currency Currency, senderID, receiverID, note string, status TxStatus) Transaction {
	return Transaction{
		ID:         uuid.NewString(),
		Type:       kind,
		Amount:     amount,
		Currency:   currency,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Note:       note,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
}
