package ledger

import "time"

// Currency identifies the denomination of a wallet. A wallet holds exactly
// one currency for its whole lifetime.
type Currency string

const (
	// CurrencyUSD is the default wallet currency.
	CurrencyUSD Currency = "USD"
	// CurrencyPKR is the Pakistani rupee.
	CurrencyPKR Currency = "PKR"
)

// ParseCurrency normalizes a currency code, defaulting to USD when empty.
func ParseCurrency(code string) (Currency, error) {
	switch Currency(code) {
	case "":
		return CurrencyUSD, nil
	case CurrencyUSD:
		return CurrencyUSD, nil
	case CurrencyPKR:
		return CurrencyPKR, nil
	default:
		return "", ErrUnsupportedCurrency
	}
}

// TxType classifies a ledger operation.
type TxType string

const (
	TypeDeposit  TxType = "DEPOSIT"
	TypeWithdraw TxType = "WITHDRAW"
	TypeTransfer TxType = "TRANSFER"
	TypeFunding  TxType = "FUNDING"
)

// TxStatus is the settlement state of a transaction. Settlement is
// synchronous, so only COMPLETED and FAILED are ever produced; PENDING is
// reserved for a future asynchronous flow.
type TxStatus string

const (
	StatusPending   TxStatus = "PENDING"
	StatusCompleted TxStatus = "COMPLETED"
	StatusFailed    TxStatus = "FAILED"
)

// Wallet is a per-user balance record in a single currency. Balances are
// minor units (cents) and never go negative through any committed operation.
type Wallet struct {
	UserID   string   `json:"userId"`
	Balance  int64    `json:"balance"`
	Currency Currency `json:"currency"`
}

// Transaction is the immutable audit record of one attempted operation,
// successful or not. Records are prepended to the log and never mutated or
// deleted; corrections are new compensating transactions.
type Transaction struct {
	ID         string    `json:"id"`
	Type       TxType    `json:"type"`
	Amount     int64     `json:"amount"`
	Currency   Currency  `json:"currency"`
	SenderID   string    `json:"senderId,omitempty"`
	ReceiverID string    `json:"receiverId,omitempty"`
	Note       string    `json:"note,omitempty"`
	Status     TxStatus  `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
