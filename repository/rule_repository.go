package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerledger/database"

	"github.com/jackc/pgx/v5"
)

// RuleRepository reads configured rule sets. It always runs on the pool so
// a failing lookup never aborts a settlement transaction.
type RuleRepository struct {
	q queryable
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *database.DB) *RuleRepository {
	return &RuleRepository{q: db.Pool}
}

// GetActiveRuleSetID returns the id of the active rule set, nil if none
func (r *RuleRepository) GetActiveRuleSetID(ctx context.Context) (*int64, error) {
	query := `
		SELECT rule_set_id
		FROM rule_sets
		WHERE is_active = TRUE
		ORDER BY rule_set_id DESC
		LIMIT 1
	`

	var id int64
	err := r.q.QueryRow(ctx, query).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active rule set: %w", err)
	}
	return &id, nil
}

// GetRuleParams returns the raw rule_param of every rule in a set keyed by rule_type
func (r *RuleRepository) GetRuleParams(ctx context.Context, ruleSetID int64) (map[string]string, error) {
	query := `
		SELECT rule_type, rule_param
		FROM rules
		WHERE rule_set_id = $1
	`

	rows, err := r.q.Query(ctx, query, ruleSetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules for rule set %d: %w", ruleSetID, err)
	}
	defer rows.Close()

	params := make(map[string]string)
	for rows.Next() {
		var ruleType, param string
		if err := rows.Scan(&ruleType, &param); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		params[ruleType] = param
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	return params, nil
}
