// AngelaMos | 2026
// service.go

package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/barulogix/barulogix-api/internal/conductor"
	"github.com/barulogix/barulogix-api/internal/config"
	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/metrics"
)

var (
	ErrConductorNotFound = errors.New("conductor not found")
	ErrMissingTenant     = errors.New("tenant required")
)

// ConductorFinder resolves the conductor named in an import.
type ConductorFinder interface {
	FindActiveByName(
		ctx context.Context,
		userID, name string,
	) (*conductor.Conductor, error)
}

type Service struct {
	repo       Repository
	conductors ConductorFinder
	cfg        config.DeliveriesConfig
}

func NewService(
	repo Repository,
	conductors ConductorFinder,
	cfg config.DeliveriesConfig,
) *Service {
	return &Service{
		repo:       repo,
		conductors: conductors,
		cfg:        cfg,
	}
}

// Import validates each package on its own and inserts the survivors in
// one batch. Per-package problems land in the result, never in err.
func (s *Service) Import(
	ctx context.Context,
	userID string,
	req ImportRequest,
) (*ImportResult, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}

	name := strings.TrimSpace(req.Conductor)
	deliveryType := strings.TrimSpace(req.Type)
	dateText := strings.TrimSpace(req.DeliveryDate)

	switch {
	case name == "" || deliveryType == "" || dateText == "":
		return nil, core.InvalidInputError(
			"conductor, type and deliveryDate are required",
		)
	case len(req.Packages) == 0:
		return nil, core.InvalidInputError("packages must not be empty")
	case len(req.Packages) > s.cfg.MaxImportBatch:
		return nil, core.InvalidInputError(fmt.Sprintf(
			"at most %d packages per import", s.cfg.MaxImportBatch,
		))
	case !ValidType(deliveryType):
		return nil, core.InvalidInputError("type must be Shein/Temu or Dropi")
	}

	deliveryDate, err := ParseDate(dateText)
	if err != nil {
		return nil, core.InvalidInputError("deliveryDate is not a valid date")
	}

	ctx, span := core.StartSpan(ctx, "delivery.import",
		attribute.String("delivery.type", deliveryType),
		attribute.Int("delivery.packages", len(req.Packages)),
	)
	defer span.End()

	c, err := s.conductors.FindActiveByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrConductorNotFound
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("resolve conductor: %w", err)
	}

	result := &ImportResult{
		DuplicateTrackings: []string{},
		ErrorMessages:      []string{},
	}

	seen := make(map[string]struct{}, len(req.Packages))
	candidates := make([]Delivery, 0, len(req.Packages))
	// dupAt marks, by package position, which packages ended up duplicates.
	dupAt := make(map[int]string)
	positions := make([]int, 0, len(req.Packages))

	for i, pkg := range req.Packages {
		tracking := strings.TrimSpace(pkg.Tracking)
		if !ValidTracking(tracking) {
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Tracking inválido: %s", pkg.Tracking))
			continue
		}

		if _, repeated := seen[tracking]; repeated {
			dupAt[i] = tracking
			continue
		}

		var value float64
		if deliveryType == TypeDropi {
			v, shown, ok := parseValue(pkg.Value)
			if !ok {
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Valor inválido para %s: %s", tracking, shown))
				continue
			}
			value = v
		}

		seen[tracking] = struct{}{}
		positions = append(positions, i)
		candidates = append(candidates, Delivery{
			ID:            uuid.New().String(),
			UserID:        userID,
			ConductorID:   c.ID,
			ConductorName: c.Name,
			Tracking:      tracking,
			Type:          deliveryType,
			Status:        StatusPending,
			DeliveryDate:  deliveryDate,
			Value:         value,
		})
	}

	created, skipped, err := s.insertNew(ctx, userID, candidates)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}
	for j, d := range candidates {
		if _, ok := skipped[d.Tracking]; ok {
			dupAt[positions[j]] = d.Tracking
		}
	}
	for i := range req.Packages {
		if tracking, ok := dupAt[i]; ok {
			result.DuplicateTrackings = append(result.DuplicateTrackings, tracking)
		}
	}

	result.Created = created
	result.Duplicates = len(result.DuplicateTrackings)
	result.Errors = len(result.ErrorMessages)

	metrics.ObserveImport(deliveryType, result.Created, result.Duplicates, result.Errors)

	slog.InfoContext(ctx, "deliveries imported",
		"user_id", userID,
		"conductor_id", c.ID,
		"type", deliveryType,
		"created", result.Created,
		"duplicates", result.Duplicates,
		"errors", result.Errors,
	)

	return result, nil
}

// insertNew drops candidates the tenant already has and inserts the rest.
// It returns the trackings that were not written: already persisted, or
// skipped by the store because a concurrent import won.
func (s *Service) insertNew(
	ctx context.Context,
	userID string,
	candidates []Delivery,
) (int, map[string]struct{}, error) {
	skipped := make(map[string]struct{})
	if len(candidates) == 0 {
		return 0, skipped, nil
	}

	trackings := make([]string, len(candidates))
	for i := range candidates {
		trackings[i] = candidates[i].Tracking
	}

	existing, err := s.repo.ExistingTrackings(ctx, userID, trackings)
	if err != nil {
		return 0, nil, err
	}
	persisted := toSet(existing)

	fresh := make([]Delivery, 0, len(candidates))
	for _, d := range candidates {
		if _, ok := persisted[d.Tracking]; ok {
			skipped[d.Tracking] = struct{}{}
			continue
		}
		fresh = append(fresh, d)
	}

	if len(fresh) == 0 {
		return 0, skipped, nil
	}

	inserted, err := s.repo.BulkInsert(ctx, fresh)
	if err != nil {
		return 0, nil, err
	}

	written := toSet(inserted)
	for _, d := range fresh {
		if _, ok := written[d.Tracking]; !ok {
			skipped[d.Tracking] = struct{}{}
		}
	}

	return len(inserted), skipped, nil
}

type ListResult struct {
	Items []Delivery
	Total int
	Page  int
	Limit int
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	p ListParams,
) (*ListResult, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}

	f, err := parseFilter(p)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit < 1 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	page := core.ClampPage(p.Page, limit)

	items, total, err := s.repo.List(ctx, userID, f, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func parseFilter(p ListParams) (Filter, error) {
	f := Filter{
		Conductor: strings.TrimSpace(p.Conductor),
		Type:      strings.TrimSpace(p.Type),
		Tracking:  strings.TrimSpace(p.Tracking),
	}

	if raw := strings.TrimSpace(p.Status); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil || !ValidStatus(status) {
			return f, core.InvalidInputError("status must be 0, 1 or 2")
		}
		f.Status = &status
	}

	if f.Type != "" && !ValidType(f.Type) {
		return f, core.InvalidInputError("type must be Shein/Temu or Dropi")
	}

	if raw := strings.TrimSpace(p.StartDate); raw != "" {
		start, err := ParseDate(raw)
		if err != nil {
			return f, core.InvalidInputError("startDate is not a valid date")
		}
		from := StartOfDay(start)
		f.From = &from
	}

	if raw := strings.TrimSpace(p.EndDate); raw != "" {
		end, err := ParseDate(raw)
		if err != nil {
			return f, core.InvalidInputError("endDate is not a valid date")
		}
		until := StartOfDay(end).AddDate(0, 0, 1)
		f.Until = &until
	}

	if f.From != nil && f.Until != nil && !f.From.Before(*f.Until) {
		return f, core.InvalidInputError("startDate must not be after endDate")
	}

	return f, nil
}

// UpdateStatus moves the given trackings to status. Returned packages get
// delivery_date and returned_at stamped with the current time.
func (s *Service) UpdateStatus(
	ctx context.Context,
	userID string,
	req UpdateStatusRequest,
) (int64, error) {
	if userID == "" {
		return 0, ErrMissingTenant
	}

	trackings := CleanTrackings(req.Trackings)
	if len(trackings) == 0 {
		return 0, core.InvalidInputError("trackings is required")
	}
	if req.Status == nil || !ValidStatus(*req.Status) {
		return 0, core.InvalidInputError(
			"status must be 0 (pending), 1 (delivered) or 2 (returned)",
		)
	}
	status := *req.Status

	var conductorName string
	if req.Conductor != nil {
		conductorName = strings.TrimSpace(*req.Conductor)
	}

	ctx, span := core.StartSpan(ctx, "delivery.update_status",
		attribute.Int("delivery.status", status),
		attribute.Int("delivery.trackings", len(trackings)),
	)
	defer span.End()

	updated, err := s.repo.UpdateStatus(ctx, userID, trackings, status, conductorName)
	if err != nil {
		core.SetSpanError(ctx, err)
		return 0, err
	}

	metrics.ObserveStatusUpdate(status, updated)

	slog.InfoContext(ctx, "delivery status updated",
		"user_id", userID,
		"status", status,
		"requested", len(trackings),
		"updated", updated,
	)

	return updated, nil
}

func (s *Service) Delete(
	ctx context.Context,
	userID string,
	trackings []string,
) (int64, error) {
	if userID == "" {
		return 0, ErrMissingTenant
	}

	trackings = CleanTrackings(trackings)
	if len(trackings) == 0 {
		return 0, core.InvalidInputError("trackings is required")
	}

	deleted, err := s.repo.DeleteByTrackings(ctx, userID, trackings)
	if err != nil {
		return 0, err
	}

	metrics.ObserveDeliveriesDeleted(deleted)

	slog.InfoContext(ctx, "deliveries deleted",
		"user_id", userID,
		"requested", len(trackings),
		"deleted", deleted,
	)

	return deleted, nil
}

// CleanTrackings trims each code and drops empties and repeats.
func CleanTrackings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseValue reads a package value given as a JSON number or numeric
// string. Missing, null and blank values are 0. The second return is the
// value as shown in error messages.
func parseValue(raw json.RawMessage) (float64, string, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, "", true
	}

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, text, false
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return 0, "", true
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxValue {
		return 0, text, false
	}

	return v, text, true
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
