package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerledger/database"
	"wagerledger/models"

	"github.com/jackc/pgx/v5"
)

// PayoutRepository implements the PayoutRepository interface
type PayoutRepository struct {
	q queryable
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *database.DB) *PayoutRepository {
	return &PayoutRepository{q: db.Pool}
}

func newPayoutRepositoryWithTx(tx queryable) *PayoutRepository {
	return &PayoutRepository{q: tx}
}

// Create records the resolution of a bet. bets.bet_id is unique in payouts,
// so a second payout for the same bet fails.
func (r *PayoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	query := `
		INSERT INTO payouts (bet_id, win_amount, outcome)
		VALUES ($1, $2, $3)
		RETURNING payout_id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		payout.BetID,
		money(payout.WinAmount),
		payout.Outcome,
	).Scan(&payout.PayoutID, &payout.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payout for bet %d: %w", payout.BetID, err)
	}

	return nil
}

// GetByBetID returns the payout of a bet, nil if unresolved
func (r *PayoutRepository) GetByBetID(ctx context.Context, betID int64) (*models.Payout, error) {
	query := `
		SELECT payout_id, bet_id, win_amount::text, outcome, created_at
		FROM payouts
		WHERE bet_id = $1
	`

	var payout models.Payout
	var winAmount string
	err := r.q.QueryRow(ctx, query, betID).Scan(
		&payout.PayoutID,
		&payout.BetID,
		&winAmount,
		&payout.Outcome,
		&payout.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payout for bet %d: %w", betID, err)
	}

	if payout.WinAmount, err = parseMoney("win_amount", winAmount); err != nil {
		return nil, err
	}

	return &payout, nil
}
