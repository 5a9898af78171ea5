package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the authoritative balance of one user
type Wallet struct {
	WalletID  int64           `db:"wallet_id"`
	UserID    int64           `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// CanCover reports whether the balance covers amount
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
