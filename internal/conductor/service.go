// AngelaMos | 2026
// service.go

package conductor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/metrics"
)

var (
	ErrNameTooShort  = errors.New("conductor name must be at least 2 characters")
	ErrNameTaken     = errors.New("an active conductor with that name already exists")
	ErrMissingTenant = errors.New("tenant required")
)

// RepoFactory binds a Repository to a handle, so the same queries can run
// inside a transaction.
type RepoFactory func(db core.DBTX) Repository

type Service struct {
	repo    Repository
	tx      core.TxRunner
	repoFor RepoFactory
}

func NewService(repo Repository, tx core.TxRunner, repoFor RepoFactory) *Service {
	return &Service{
		repo:    repo,
		tx:      tx,
		repoFor: repoFor,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]Conductor, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}
	return s.repo.ListActive(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Conductor, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}
	if !validID(id) {
		return nil, fmt.Errorf("get conductor: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, userID, id)
}

// FindActiveByName resolves a roster name to its active conductor.
func (s *Service) FindActiveByName(
	ctx context.Context,
	userID, name string,
) (*Conductor, error) {
	return s.repo.GetActiveByName(ctx, userID, strings.TrimSpace(name))
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateConductorRequest,
) (*Conductor, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}

	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < MinNameLength {
		return nil, ErrNameTooShort
	}

	_, err := s.repo.GetActiveByName(ctx, userID, name)
	switch {
	case err == nil:
		return nil, ErrNameTaken
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("check conductor name: %w", err)
	}

	c := &Conductor{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         name,
		Phone:        clean(req.Phone),
		Email:        lowerClean(req.Email),
		VehicleType:  clean(req.VehicleType),
		LicensePlate: upperClean(req.LicensePlate),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	slog.InfoContext(ctx, "conductor created",
		"user_id", userID,
		"conductor_id", c.ID,
	)

	return c, nil
}

// Update edits contact and vehicle data. Names are immutable once
// deliveries may reference them.
func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateConductorRequest,
) (*Conductor, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		c.Phone = clean(req.Phone)
	}
	if req.Email != nil {
		c.Email = lowerClean(req.Email)
	}
	if req.VehicleType != nil {
		c.VehicleType = clean(req.VehicleType)
	}
	if req.LicensePlate != nil {
		c.LicensePlate = upperClean(req.LicensePlate)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Deactivate soft-deletes a conductor. With cascade every delivery of the
// tenant assigned to it is removed in the same transaction.
func (s *Service) Deactivate(
	ctx context.Context,
	userID, id string,
	cascade bool,
) (int64, error) {
	if userID == "" {
		return 0, ErrMissingTenant
	}
	if !validID(id) {
		return 0, fmt.Errorf("deactivate conductor: %w", core.ErrNotFound)
	}

	ctx, span := core.StartSpan(ctx, "conductor.deactivate",
		attribute.String("conductor.id", id),
		attribute.Bool("conductor.cascade", cascade),
	)
	defer span.End()

	var deleted int64
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repoFor(tx)

		if _, err := repo.GetByID(ctx, userID, id); err != nil {
			return err
		}

		if cascade {
			n, err := repo.DeleteDeliveries(ctx, userID, id)
			if err != nil {
				return err
			}
			deleted = n
		}

		return repo.Deactivate(ctx, userID, id)
	})
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			core.SetSpanError(ctx, err)
		}
		return 0, err
	}

	metrics.ObserveConductorDeactivated(cascade)
	metrics.ObserveDeliveriesDeleted(deleted)

	slog.InfoContext(ctx, "conductor deactivated",
		"user_id", userID,
		"conductor_id", id,
		"cascade", cascade,
		"deliveries_deleted", deleted,
	)

	return deleted, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func clean(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func lowerClean(s *string) *string {
	v := clean(s)
	if v != nil {
		*v = strings.ToLower(*v)
	}
	return v
}

func upperClean(s *string) *string {
	v := clean(s)
	if v != nil {
		*v = strings.ToUpper(*v)
	}
	return v
}
