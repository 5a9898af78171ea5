package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger movement
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeBet      TransactionType = "BET"
	TransactionTypePayout   TransactionType = "PAYOUT"
)

// IsCredit reports whether the movement increases the balance
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDeposit || t == TransactionTypePayout
}

// Transaction is an append-only ledger entry. Amount is always positive;
// the direction follows from Type.
type Transaction struct {
	TransactionID int64           `db:"transaction_id"`
	WalletID      int64           `db:"wallet_id"`
	Amount        decimal.Decimal `db:"amount"`
	Type          TransactionType `db:"tx_type"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Reference     string          `db:"reference"`
	GameID        *int64          `db:"game_id"`
	CreatedAt     time.Time       `db:"created_at"`
}
