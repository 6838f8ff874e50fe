package ledger

// SeedBalance is a test helper that installs a wallet with the given balance
// without going through an operation or touching the store.
func SeedBalance(l *Ledger, userID string, amount int64, currency Currency) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wallets[userID] = Wallet{UserID: userID, Balance: amount, Currency: currency}
}
