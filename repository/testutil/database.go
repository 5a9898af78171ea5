package testutil

import (
	"context"
	"testing"
	"time"

	"wagerledger/database"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestDatabase represents a test database instance
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *database.DB
	URL       string
}

// SetupTestDatabase creates a new PostgreSQL test container and runs migrations
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	labels := map[string]string{
		"test":      "wagerledger-repository",
		"test-name": t.Name(),
		"timestamp": time.Now().Format("20060102-150405"),
		"cleanup":   "auto",
	}

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wagerledger_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(labels),
	)
	require.NoError(t, err)

	testDB := &TestDatabase{
		Container: postgresContainer,
	}
	t.Cleanup(func() {
		testDB.robustCleanup(t)
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrationsWithURL(connStr))

	db, err := database.NewConnection(ctx, connStr)
	require.NoError(t, err)

	testDB.DB = db
	testDB.URL = connStr

	return testDB
}

// SeedRuleSet inserts an active rule set with the given rule params and
// returns its id. Any previously active set is deactivated.
func (td *TestDatabase) SeedRuleSet(t *testing.T, name string, params map[string]string) int64 {
	t.Helper()
	ctx := context.Background()

	var ruleSetID int64
	err := pgx.BeginFunc(ctx, td.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE rule_sets SET is_active = FALSE WHERE is_active`); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO rule_sets (name, is_active) VALUES ($1, TRUE) RETURNING rule_set_id`,
			name,
		).Scan(&ruleSetID); err != nil {
			return err
		}
		for ruleType, param := range params {
			if _, err := tx.Exec(ctx,
				`INSERT INTO rules (rule_set_id, rule_type, rule_param) VALUES ($1, $2, $3)`,
				ruleSetID, ruleType, param,
			); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	return ruleSetID
}

// robustCleanup closes the pool and terminates the container, recovering from panics
func (td *TestDatabase) robustCleanup(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Logf("Panic during container cleanup (recovered): %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if td.DB != nil {
		td.DB.Close()
	}

	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			t.Logf("Warning: Failed to terminate test container: %v", err)
		}
	}
}
