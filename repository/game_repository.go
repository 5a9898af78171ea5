package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wagerledger/database"
	"wagerledger/models"
	"wagerledger/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

const gameColumns = `game_id, user_id, rule_set_id, game_type, status, game_state, game_result, started_at, ended_at`

// Create inserts a new ACTIVE game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (user_id, rule_set_id, game_type, status, game_state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING game_id, started_at
	`

	game.Status = models.GameStatusActive
	err := r.q.QueryRow(ctx, query,
		game.UserID,
		game.RuleSetID,
		game.GameType,
		game.Status,
		game.GameState,
	).Scan(&game.GameID, &game.StartedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("user %d already has an active %s game: %w", game.UserID, game.GameType, service.ErrActiveGameExists)
		}
		return fmt.Errorf("failed to create %s game for user %d: %w", game.GameType, game.UserID, err)
	}

	return nil
}

// GetByID retrieves a game by ID, nil if none
func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	return game, nil
}

// GetActiveByUser returns the user's ACTIVE game of a type, nil if none
func (r *GameRepository) GetActiveByUser(ctx context.Context, userID int64, gameType models.GameType) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE user_id = $1 AND game_type = $2 AND status = 'ACTIVE'
		ORDER BY started_at DESC
		LIMIT 1
	`

	game, err := scanGame(r.q.QueryRow(ctx, query, userID, gameType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active %s game for user %d: %w", gameType, userID, err)
	}
	return game, nil
}

// UpdateState replaces the persisted state of an ACTIVE game
func (r *GameRepository) UpdateState(ctx context.Context, gameID int64, state []byte) error {
	query := `
		UPDATE games
		SET game_state = $2
		WHERE game_id = $1 AND status = 'ACTIVE'
	`
	return r.execOnActive(ctx, "update state of", gameID, query, gameID, state)
}

// Complete fixes the result of an ACTIVE game and clears its state
func (r *GameRepository) Complete(ctx context.Context, gameID int64, result []byte) error {
	query := `
		UPDATE games
		SET status = 'COMPLETED', game_state = NULL, game_result = $2, ended_at = NOW()
		WHERE game_id = $1 AND status = 'ACTIVE'
	`
	return r.execOnActive(ctx, "complete", gameID, query, gameID, result)
}

// Cancel abandons an ACTIVE game and clears its state
func (r *GameRepository) Cancel(ctx context.Context, gameID int64) error {
	query := `
		UPDATE games
		SET status = 'CANCELLED', game_state = NULL, ended_at = NOW()
		WHERE game_id = $1 AND status = 'ACTIVE'
	`
	return r.execOnActive(ctx, "cancel", gameID, query, gameID)
}

func (r *GameRepository) execOnActive(ctx context.Context, action string, gameID int64, query string, args ...any) error {
	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s game %d: %w", action, gameID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cannot %s game %d: %w", action, gameID, service.ErrNoActiveGame)
	}
	return nil
}

// GetHistory returns the user's rounds joined with bets and payouts, newest
// first. A nil gameType returns every game.
func (r *GameRepository) GetHistory(ctx context.Context, userID int64, gameType *models.GameType, limit, offset int) ([]*models.GameHistoryEntry, error) {
	query := `
		SELECT g.game_id, g.game_type, g.status, g.game_result, g.started_at, g.ended_at,
		       b.bet_type, b.bet_value, b.stake_amount::text, p.win_amount::text, p.outcome
		FROM games g
		JOIN bets b ON b.game_id = g.game_id
		LEFT JOIN payouts p ON p.bet_id = b.bet_id
		WHERE g.user_id = $1 AND ($2::text IS NULL OR g.game_type = $2::text)
		ORDER BY g.started_at DESC, g.game_id DESC
		LIMIT $3 OFFSET $4
	`

	var typeFilter *string
	if gameType != nil {
		filter := string(*gameType)
		typeFilter = &filter
	}

	rows, err := r.q.Query(ctx, query, userID, typeFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get game history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.GameHistoryEntry
	for rows.Next() {
		var entry models.GameHistoryEntry
		var stake string
		var winAmount, outcome *string
		if err := rows.Scan(
			&entry.GameID,
			&entry.GameType,
			&entry.Status,
			&entry.GameResult,
			&entry.StartedAt,
			&entry.EndedAt,
			&entry.BetType,
			&entry.BetValue,
			&stake,
			&winAmount,
			&outcome,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game history: %w", err)
		}

		if entry.Stake, err = parseMoney("stake_amount", stake); err != nil {
			return nil, err
		}
		if entry.WinAmount, err = parseOptionalMoney("win_amount", winAmount); err != nil {
			return nil, err
		}
		if outcome != nil {
			o := models.PayoutOutcome(*outcome)
			entry.Outcome = &o
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game history: %w", err)
	}

	return entries, nil
}

// GetStats aggregates the user's rounds started since the given time
func (r *GameRepository) GetStats(ctx context.Context, userID int64, since time.Time) (*models.GameStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(b.stake_amount), 0)::text,
			COALESCE(SUM(p.win_amount), 0)::text,
			COUNT(*) FILTER (WHERE p.outcome = 'WIN'),
			COUNT(*) FILTER (WHERE p.outcome = 'LOSS'),
			COUNT(*) FILTER (WHERE p.outcome = 'PUSH')
		FROM games g
		JOIN bets b ON b.game_id = g.game_id
		LEFT JOIN payouts p ON p.bet_id = b.bet_id
		WHERE g.user_id = $1 AND g.started_at >= $2
	`

	var stats models.GameStats
	var staked, paid string
	err := r.q.QueryRow(ctx, query, userID, since).Scan(
		&stats.TotalGames,
		&staked,
		&paid,
		&stats.Wins,
		&stats.Losses,
		&stats.Pushes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats for user %d: %w", userID, err)
	}

	if stats.TotalStaked, err = parseMoney("total_staked", staked); err != nil {
		return nil, err
	}
	if stats.TotalPaidOut, err = parseMoney("total_paid_out", paid); err != nil {
		return nil, err
	}

	return &stats, nil
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	if err := row.Scan(
		&game.GameID,
		&game.UserID,
		&game.RuleSetID,
		&game.GameType,
		&game.Status,
		&game.GameState,
		&game.GameResult,
		&game.StartedAt,
		&game.EndedAt,
	); err != nil {
		return nil, err
	}
	return &game, nil
}
