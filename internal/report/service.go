// AngelaMos | 2026
// service.go

package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/barulogix/barulogix-api/internal/config"
	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/delivery"
)

var (
	ErrConductorNotFound = errors.New("conductor not found")
	ErrMissingTenant     = errors.New("tenant required")
)

type Service struct {
	repo Repository
	cfg  config.DeliveriesConfig
	now  func() time.Time
}

func NewService(repo Repository, cfg config.DeliveriesConfig) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// dateRange is an inclusive span of calendar days.
type dateRange struct {
	start time.Time
	end   time.Time
}

func (d dateRange) window(conductor string) Window {
	return Window{
		Conductor: conductor,
		From:      d.start,
		Until:     d.end.AddDate(0, 0, 1),
	}
}

// resolveRange fills a missing bound from the configured stats window,
// ending today when no end date is given.
func (s *Service) resolveRange(startText, endText string) (dateRange, error) {
	days := s.cfg.StatsWindowDays
	if days < 1 {
		days = 30
	}

	var r dateRange

	if endText = strings.TrimSpace(endText); endText != "" {
		end, err := delivery.ParseDate(endText)
		if err != nil {
			return r, core.InvalidInputError("endDate is not a valid date")
		}
		r.end = delivery.StartOfDay(end)
	} else {
		r.end = delivery.StartOfDay(s.now().UTC())
	}

	if startText = strings.TrimSpace(startText); startText != "" {
		start, err := delivery.ParseDate(startText)
		if err != nil {
			return r, core.InvalidInputError("startDate is not a valid date")
		}
		r.start = delivery.StartOfDay(start)
	} else {
		r.start = r.end.AddDate(0, 0, -(days - 1))
	}

	if r.start.After(r.end) {
		return r, core.InvalidInputError("startDate must not be after endDate")
	}

	return r, nil
}

func (s *Service) ComputeStats(
	ctx context.Context,
	userID string,
	p StatsParams,
) (*Stats, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}

	r, err := s.resolveRange(p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}

	return s.compute(ctx, userID, strings.TrimSpace(p.Conductor), r)
}

func (s *Service) compute(
	ctx context.Context,
	userID, conductorName string,
	r dateRange,
) (*Stats, error) {
	ctx, span := core.StartSpan(ctx, "report.compute_stats",
		attribute.Bool("report.conductor_scoped", conductorName != ""),
	)
	defer span.End()

	if conductorName != "" {
		exists, err := s.repo.ConductorExists(ctx, userID, conductorName)
		if err != nil {
			core.SetSpanError(ctx, err)
			return nil, err
		}
		if !exists {
			return nil, ErrConductorNotFound
		}
	}

	w := r.window(conductorName)

	buckets, err := s.repo.CountByStatus(ctx, userID, w)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	stats := buildStats(buckets)
	stats.Conductor = conductorName
	stats.StartDate = r.start.Format(time.DateOnly)
	stats.EndDate = r.end.Format(time.DateOnly)

	if conductorName != "" {
		byType, err := s.repo.CountByTypeAndStatus(ctx, userID, w)
		if err != nil {
			core.SetSpanError(ctx, err)
			return nil, err
		}
		stats.ByType = toTypeBreakdown(byType)
	}

	return stats, nil
}

// Generate computes stats for the request and records the report in the
// tenant's history.
func (s *Service) Generate(
	ctx context.Context,
	userID string,
	req GenerateReportRequest,
) (*GeneratedReport, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}

	conductorName := strings.TrimSpace(req.Conductor)

	reportType := req.Type
	if reportType == "" {
		reportType = TypeGeneral
		if conductorName != "" {
			reportType = TypeConductor
		}
	}

	switch {
	case reportType == TypeConductor && conductorName == "":
		return nil, core.InvalidInputError("conductor is required for conductor reports")
	case reportType == TypeGeneral && conductorName != "":
		return nil, core.InvalidInputError("general reports cover every conductor")
	}

	r, err := s.resolveRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	stats, err := s.compute(ctx, userID, conductorName, r)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      reportType,
		StartDate: r.start,
		EndDate:   r.end,
	}
	if conductorName != "" {
		rep.Conductor = &conductorName
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}

	slog.InfoContext(ctx, "report generated",
		"user_id", userID,
		"report_id", rep.ID,
		"type", reportType,
		"total", stats.Total,
	)

	return &GeneratedReport{
		Report: ToReportResponse(rep),
		Stats:  stats,
	}, nil
}

type ReportPage struct {
	Items []Report
	Total int
	Page  int
	Limit int
}

func (s *Service) ListReports(
	ctx context.Context,
	userID string,
	page, limit int,
) (*ReportPage, error) {
	if userID == "" {
		return nil, ErrMissingTenant
	}

	if limit < 1 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	page = core.ClampPage(page, limit)

	items, total, err := s.repo.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &ReportPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
