// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/barulogix/barulogix-api/internal/core"
)

// Overview reads platform-wide totals. It is the only repository that
// crosses tenants and is mounted behind RequireAdmin.
type Overview interface {
	UsersBy(ctx context.Context, column string) (map[string]int, error)
	ConductorCounts(ctx context.Context) (ConductorTotals, error)
	DeliveriesByStatus(ctx context.Context) (map[string]int, error)
	ReportCount(ctx context.Context) (int, error)
}

type overview struct {
	db core.DBTX
}

func NewOverview(db core.DBTX) Overview {
	return &overview{db: db}
}

type keyCount struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

var groupableUserColumns = map[string]bool{
	"subscription_status": true,
	"plan":                true,
	"role":                true,
}

func (o *overview) grouped(
	ctx context.Context,
	b sq.SelectBuilder,
) (map[string]int, error) {
	var rows []keyCount
	if err := core.SelectBuilt(ctx, o.db, &rows, b); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (o *overview) UsersBy(
	ctx context.Context,
	column string,
) (map[string]int, error) {
	if !groupableUserColumns[column] {
		return nil, fmt.Errorf("group users by %q: unsupported column", column)
	}

	b := core.Psql.Select(column+" AS key", "COUNT(*) AS count").
		From("users").
		Where(sq.Eq{"deleted_at": nil}).
		GroupBy(column)

	out, err := o.grouped(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("count users by %s: %w", column, err)
	}
	return out, nil
}

func (o *overview) ConductorCounts(ctx context.Context) (ConductorTotals, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE is_active)     AS active,
		       COUNT(*) FILTER (WHERE NOT is_active) AS inactive
		FROM conductors`

	var totals ConductorTotals
	if err := o.db.GetContext(ctx, &totals, query); err != nil {
		return totals, fmt.Errorf("count conductors: %w", err)
	}
	return totals, nil
}

func (o *overview) DeliveriesByStatus(ctx context.Context) (map[string]int, error) {
	b := core.Psql.Select("status::text AS key", "COUNT(*) AS count").
		From("deliveries").
		GroupBy("status")

	out, err := o.grouped(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	return out, nil
}

func (o *overview) ReportCount(ctx context.Context) (int, error) {
	var n int
	if err := o.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reports`); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}
