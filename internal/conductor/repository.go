// AngelaMos | 2026
// repository.go

package conductor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/barulogix/barulogix-api/internal/core"
)

// Repository scopes every call to one tenant through userID.
type Repository interface {
	ListActive(ctx context.Context, userID string) ([]Conductor, error)
	GetByID(ctx context.Context, userID, id string) (*Conductor, error)
	GetActiveByName(ctx context.Context, userID, name string) (*Conductor, error)
	Create(ctx context.Context, c *Conductor) error
	Update(ctx context.Context, c *Conductor) error
	Deactivate(ctx context.Context, userID, id string) error
	DeleteDeliveries(ctx context.Context, userID, conductorID string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

var conductorColumns = []string{
	"id", "user_id", "name", "phone", "email", "vehicle_type",
	"license_plate", "is_active", "created_at", "updated_at",
}

func (r *repository) ListActive(
	ctx context.Context,
	userID string,
) ([]Conductor, error) {
	b := core.Psql.Select(conductorColumns...).
		From("conductors").
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		OrderBy("name ASC")

	conductors := []Conductor{}
	if err := core.SelectBuilt(ctx, r.db, &conductors, b); err != nil {
		return nil, fmt.Errorf("list conductors: %w", err)
	}

	return conductors, nil
}

func (r *repository) getOne(
	ctx context.Context,
	op string,
	where sq.Eq,
) (*Conductor, error) {
	b := core.Psql.Select(conductorColumns...).From("conductors").Where(where)

	var c Conductor
	err := core.GetBuilt(ctx, r.db, &c, b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*Conductor, error) {
	return r.getOne(ctx, "get conductor", sq.Eq{"user_id": userID, "id": id})
}

func (r *repository) GetActiveByName(
	ctx context.Context,
	userID, name string,
) (*Conductor, error) {
	return r.getOne(ctx, "get conductor by name", sq.Eq{
		"user_id":   userID,
		"name":      name,
		"is_active": true,
	})
}

func (r *repository) Create(ctx context.Context, c *Conductor) error {
	query := `
		INSERT INTO conductors (id, user_id, name, phone, email,
		                        vehicle_type, license_plate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		RETURNING is_active, created_at, updated_at`

	err := r.db.GetContext(ctx, c, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Phone,
		c.Email,
		c.VehicleType,
		c.LicensePlate,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create conductor: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create conductor: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, c *Conductor) error {
	query := `
		UPDATE conductors
		SET phone = $3, email = $4, vehicle_type = $5, license_plate = $6,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &c.UpdatedAt, query,
		c.ID,
		c.UserID,
		c.Phone,
		c.Email,
		c.VehicleType,
		c.LicensePlate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update conductor: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update conductor: %w", err)
	}

	return nil
}

func (r *repository) Deactivate(ctx context.Context, userID, id string) error {
	query := `
		UPDATE conductors
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deactivate conductor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate conductor: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deactivate conductor: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteDeliveries(
	ctx context.Context,
	userID, conductorID string,
) (int64, error) {
	query := `DELETE FROM deliveries WHERE user_id = $1 AND conductor_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, conductorID)
	if err != nil {
		return 0, fmt.Errorf("delete conductor deliveries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete conductor deliveries: %w", err)
	}

	return rows, nil
}
