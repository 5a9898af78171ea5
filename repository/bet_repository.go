package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerledger/database"
	"wagerledger/models"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create records the stake placed within a game
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (game_id, bet_type, bet_value, stake_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING bet_id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.GameID,
		bet.BetType,
		bet.BetValue,
		money(bet.StakeAmount),
	).Scan(&bet.BetID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for game %d: %w", bet.GameID, err)
	}

	return nil
}

// GetByGameID returns the bet of a game, nil if none
func (r *BetRepository) GetByGameID(ctx context.Context, gameID int64) (*models.Bet, error) {
	query := `
		SELECT bet_id, game_id, bet_type, bet_value, stake_amount::text, created_at
		FROM bets
		WHERE game_id = $1
	`

	var bet models.Bet
	var stake string
	err := r.q.QueryRow(ctx, query, gameID).Scan(
		&bet.BetID,
		&bet.GameID,
		&bet.BetType,
		&bet.BetValue,
		&stake,
		&bet.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet for game %d: %w", gameID, err)
	}

	if bet.StakeAmount, err = parseMoney("stake_amount", stake); err != nil {
		return nil, err
	}

	return &bet, nil
}
