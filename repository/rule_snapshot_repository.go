package repository

import (
	"context"
	"fmt"

	"wagerledger/database"
	"wagerledger/models"
)

// RuleSnapshotRepository implements the RuleSnapshotRepository interface
type RuleSnapshotRepository struct {
	q queryable
}

// NewRuleSnapshotRepository creates a new rule snapshot repository
func NewRuleSnapshotRepository(db *database.DB) *RuleSnapshotRepository {
	return &RuleSnapshotRepository{q: db.Pool}
}

func newRuleSnapshotRepositoryWithTx(tx queryable) *RuleSnapshotRepository {
	return &RuleSnapshotRepository{q: tx}
}

// Create records the value a rule had when a game was played. The first
// snapshot per (game, rule) wins; later ones report inserted=false.
func (r *RuleSnapshotRepository) Create(ctx context.Context, snapshot *models.RuleSnapshot) (bool, error) {
	query := `
		INSERT INTO rule_snapshots (game_id, rule_set_id, rule_type, rule_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, rule_type) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query,
		snapshot.GameID,
		snapshot.RuleSetID,
		snapshot.RuleType,
		snapshot.RuleValue.StringFixed(4),
	)
	if err != nil {
		return false, fmt.Errorf("failed to snapshot rule %s for game %d: %w", snapshot.RuleType, snapshot.GameID, err)
	}

	return result.RowsAffected() == 1, nil
}

// GetByGame returns every snapshot taken for a game
func (r *RuleSnapshotRepository) GetByGame(ctx context.Context, gameID int64) ([]*models.RuleSnapshot, error) {
	query := `
		SELECT snapshot_id, game_id, rule_set_id, rule_type, rule_value::text, created_at
		FROM rule_snapshots
		WHERE game_id = $1
		ORDER BY rule_type
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule snapshots for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var snapshots []*models.RuleSnapshot
	for rows.Next() {
		var snapshot models.RuleSnapshot
		var value string
		if err := rows.Scan(
			&snapshot.SnapshotID,
			&snapshot.GameID,
			&snapshot.RuleSetID,
			&snapshot.RuleType,
			&value,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule snapshot: %w", err)
		}
		if snapshot.RuleValue, err = parseMoney("rule_value", value); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rule snapshots: %w", err)
	}

	return snapshots, nil
}
