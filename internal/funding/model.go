package funding

import (
	"time"

	"github.com/venturebridge/venturebridge/internal/ledger"
)

// Deal records a completed capital injection from an investor into an
// entrepreneur's venture, linked to the FUNDING transaction that settled it.
type Deal struct {
	ID             string
	Title          string
	EntrepreneurID string
	InvestorID     string
	Amount         int64
	Currency       ledger.Currency
	TransactionID  string
	CreatedAt      time.Time
}
