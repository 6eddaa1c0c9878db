// AngelaMos | 2026
// repository.go

package delivery

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/barulogix/barulogix-api/internal/core"
)

// Repository scopes every call to one tenant through userID.
type Repository interface {
	List(
		ctx context.Context,
		userID string,
		f Filter,
		limit, offset int,
	) ([]Delivery, int, error)
	ExistingTrackings(
		ctx context.Context,
		userID string,
		trackings []string,
	) ([]string, error)
	BulkInsert(ctx context.Context, rows []Delivery) ([]string, error)
	UpdateStatus(
		ctx context.Context,
		userID string,
		trackings []string,
		status int,
		conductor string,
	) (int64, error)
	DeleteByTrackings(
		ctx context.Context,
		userID string,
		trackings []string,
	) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

var deliveryColumns = []string{
	"d.id", "d.user_id", "d.conductor_id", "c.name AS conductor_name",
	"d.tracking", "d.type", "d.status", "d.delivery_date", "d.returned_at",
	"d.value", "d.notes", "d.created_at", "d.updated_at",
}

func filterClause(userID string, f Filter) sq.And {
	where := sq.And{sq.Eq{"d.user_id": userID}}

	if f.Conductor != "" {
		where = append(where, sq.Eq{"c.name": f.Conductor})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"d.status": *f.Status})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"d.type": f.Type})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"d.delivery_date": *f.From})
	}
	if f.Until != nil {
		where = append(where, sq.Lt{"d.delivery_date": *f.Until})
	}
	if f.Tracking != "" {
		where = append(where, sq.ILike{"d.tracking": "%" + core.EscapeLike(f.Tracking) + "%"})
	}

	return where
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	f Filter,
	limit, offset int,
) ([]Delivery, int, error) {
	where := filterClause(userID, f)

	countQuery := core.Psql.Select("COUNT(*)").
		From("deliveries d").
		Join("conductors c ON c.id = d.conductor_id").
		Where(where)

	var total int
	if err := core.GetBuilt(ctx, r.db, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count deliveries: %w", err)
	}

	listQuery := core.Psql.Select(deliveryColumns...).
		From("deliveries d").
		Join("conductors c ON c.id = d.conductor_id").
		Where(where).
		OrderBy("d.delivery_date DESC", "d.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	deliveries := []Delivery{}
	if err := core.SelectBuilt(ctx, r.db, &deliveries, listQuery); err != nil {
		return nil, 0, fmt.Errorf("list deliveries: %w", err)
	}

	return deliveries, total, nil
}

func (r *repository) ExistingTrackings(
	ctx context.Context,
	userID string,
	trackings []string,
) ([]string, error) {
	if len(trackings) == 0 {
		return nil, nil
	}

	query := `SELECT tracking FROM deliveries WHERE user_id = $1 AND tracking = ANY($2)`

	var existing []string
	if err := r.db.SelectContext(ctx, &existing, query, userID, trackings); err != nil {
		return nil, fmt.Errorf("find existing trackings: %w", err)
	}

	return existing, nil
}

// BulkInsert writes rows in one statement. Rows whose tracking already
// exists for the tenant are skipped by the unique index and left out of the
// returned trackings.
func (r *repository) BulkInsert(
	ctx context.Context,
	rows []Delivery,
) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	b := core.Psql.Insert("deliveries").Columns(
		"id", "user_id", "conductor_id", "tracking", "type",
		"status", "delivery_date", "value",
	)
	for _, d := range rows {
		b = b.Values(
			d.ID,
			d.UserID,
			d.ConductorID,
			d.Tracking,
			d.Type,
			d.Status,
			d.DeliveryDate,
			d.Value,
		)
	}
	b = b.Suffix("ON CONFLICT (user_id, tracking) DO NOTHING RETURNING tracking")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var inserted []string
	if err := r.db.SelectContext(ctx, &inserted, query, args...); err != nil {
		return nil, fmt.Errorf("insert deliveries: %w", err)
	}

	return inserted, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	userID string,
	trackings []string,
	status int,
	conductor string,
) (int64, error) {
	n, err := core.ExecBuilt(ctx, r.db, updateStatusQuery(userID, trackings, status, conductor))
	if err != nil {
		return 0, fmt.Errorf("update delivery status: %w", err)
	}

	return n, nil
}

// updateStatusQuery scopes by tenant and, when conductor is set, by the
// tenant's active conductor of that name.
func updateStatusQuery(
	userID string,
	trackings []string,
	status int,
	conductor string,
) sq.UpdateBuilder {
	b := core.Psql.Update("deliveries").
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID, "tracking": trackings})

	if status == StatusReturned {
		b = b.Set("delivery_date", sq.Expr("NOW()")).
			Set("returned_at", sq.Expr("NOW()"))
	} else {
		b = b.Set("returned_at", nil)
	}

	if conductor != "" {
		b = b.Where(
			"conductor_id IN (SELECT id FROM conductors WHERE user_id = ? AND name = ? AND is_active)",
			userID,
			conductor,
		)
	}

	return b
}

func (r *repository) DeleteByTrackings(
	ctx context.Context,
	userID string,
	trackings []string,
) (int64, error) {
	b := core.Psql.Delete("deliveries").
		Where(sq.Eq{"user_id": userID, "tracking": trackings})

	n, err := core.ExecBuilt(ctx, r.db, b)
	if err != nil {
		return 0, fmt.Errorf("delete deliveries: %w", err)
	}

	return n, nil
}
