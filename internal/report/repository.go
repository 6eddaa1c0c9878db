// AngelaMos | 2026
// repository.go

package report

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/barulogix/barulogix-api/internal/core"
)

// Window selects deliveries of one tenant with from <= delivery_date < until,
// optionally narrowed to a conductor name.
type Window struct {
	Conductor string
	From      time.Time
	Until     time.Time
}

type Repository interface {
	CountByStatus(ctx context.Context, userID string, w Window) ([]Bucket, error)
	CountByTypeAndStatus(ctx context.Context, userID string, w Window) ([]Bucket, error)
	ConductorExists(ctx context.Context, userID, name string) (bool, error)
	Create(ctx context.Context, r *Report) error
	List(ctx context.Context, userID string, limit, offset int) ([]Report, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) aggregate(
	ctx context.Context,
	userID string,
	w Window,
	groupBy ...string,
) ([]Bucket, error) {
	cols := append([]string{}, groupBy...)
	cols = append(cols, "COUNT(*) AS count", "COALESCE(SUM(d.value), 0) AS total_value")

	b := core.Psql.Select(cols...).
		From("deliveries d").
		Where(sq.Eq{"d.user_id": userID}).
		Where(sq.GtOrEq{"d.delivery_date": w.From}).
		Where(sq.Lt{"d.delivery_date": w.Until}).
		GroupBy(groupBy...).
		OrderBy(groupBy...)

	if w.Conductor != "" {
		b = b.Join("conductors c ON c.id = d.conductor_id").
			Where(sq.Eq{"c.name": w.Conductor})
	}

	buckets := []Bucket{}
	if err := core.SelectBuilt(ctx, r.db, &buckets, b); err != nil {
		return nil, fmt.Errorf("aggregate deliveries: %w", err)
	}

	return buckets, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
	userID string,
	w Window,
) ([]Bucket, error) {
	return r.aggregate(ctx, userID, w, "d.status")
}

func (r *repository) CountByTypeAndStatus(
	ctx context.Context,
	userID string,
	w Window,
) ([]Bucket, error) {
	return r.aggregate(ctx, userID, w, "d.type", "d.status")
}

// ConductorExists also matches deactivated conductors, whose deliveries may
// still be on record.
func (r *repository) ConductorExists(
	ctx context.Context,
	userID, name string,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM conductors WHERE user_id = $1 AND name = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, name); err != nil {
		return false, fmt.Errorf("check conductor: %w", err)
	}

	return exists, nil
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	query := `
		INSERT INTO reports (id, user_id, type, conductor_name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING generated_at`

	err := r.db.GetContext(ctx, &rep.GeneratedAt, query,
		rep.ID,
		rep.UserID,
		rep.Type,
		rep.Conductor,
		rep.StartDate,
		rep.EndDate,
	)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]Report, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reports WHERE user_id = $1`, userID,
	); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	b := core.Psql.Select(
		"id", "user_id", "type", "conductor_name",
		"start_date", "end_date", "generated_at",
	).
		From("reports").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("generated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	reports := []Report{}
	if err := core.SelectBuilt(ctx, r.db, &reports, b); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	return reports, total, nil
}
