// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/barulogix/barulogix-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateSubscription(
		ctx context.Context,
		id, plan, status string,
		expiresAt *time.Time,
	) error
	SetSubscriptionStatus(ctx context.Context, id, status string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

var userColumns = []string{
	"id", "email", "password_hash", "name", "role", "company", "phone",
	"plan", "subscription_status", "subscription_expires_at",
	"token_version", "created_at", "updated_at", "deleted_at",
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, company, phone,
		                   plan, subscription_status, subscription_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at, token_version`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.Company,
		user.Phone,
		user.Plan,
		user.SubscriptionStatus,
		user.SubscriptionExpiresAt,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) getOne(
	ctx context.Context,
	op string,
	where sq.Eq,
) (*User, error) {
	b := core.Psql.Select(userColumns...).
		From("users").
		Where(where).
		Where("deleted_at IS NULL")

	var user User
	err := core.GetBuilt(ctx, r.db, &user, b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, "get user", sq.Eq{"id": id})
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.getOne(ctx, "get user by email", sq.Eq{"email": email})
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, role = $3, company = $4, phone = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Role,
		user.Company,
		user.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) exec(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.exec(ctx, "update password", `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash)
}

func (r *repository) UpdateSubscription(
	ctx context.Context,
	id, plan, status string,
	expiresAt *time.Time,
) error {
	return r.exec(ctx, "update subscription", `
		UPDATE users
		SET plan = $2, subscription_status = $3,
		    subscription_expires_at = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, plan, status, expiresAt)
}

func (r *repository) SetSubscriptionStatus(
	ctx context.Context,
	id, status string,
) error {
	return r.exec(ctx, "set subscription status", `
		UPDATE users
		SET subscription_status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, status)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	return r.exec(ctx, "increment token version", `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete user", `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where := sq.And{sq.Expr("deleted_at IS NULL")}

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"email": pattern},
			sq.ILike{"name": pattern},
		})
	}
	if params.Role != "" {
		where = append(where, sq.Eq{"role": params.Role})
	}
	if params.Plan != "" {
		where = append(where, sq.Eq{"plan": params.Plan})
	}
	if params.Status != "" {
		where = append(where, sq.Eq{"subscription_status": params.Status})
	}

	var total int
	countQ := core.Psql.Select("COUNT(*)").From("users").Where(where)
	if err := core.GetBuilt(ctx, r.db, &total, countQ); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	listQ := core.Psql.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset()))

	var users []User
	if err := core.SelectBuilt(ctx, r.db, &users, listQ); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}
