package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// queryable is satisfied by both *pgxpool.Pool and pgx.Tx
type queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// money renders an amount the way NUMERIC(18,2) columns store it
func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// parseMoney parses a NUMERIC column selected as ::text
func parseMoney(column, raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s %q: %w", column, raw, err)
	}
	return amount, nil
}

// parseOptionalMoney parses a nullable NUMERIC column selected as ::text
func parseOptionalMoney(column string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	amount, err := parseMoney(column, *raw)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}
