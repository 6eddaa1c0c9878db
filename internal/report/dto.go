// AngelaMos | 2026
// dto.go

package report

import (
	"math"
	"time"

	"github.com/barulogix/barulogix-api/internal/delivery"
)

type StatsParams struct {
	Conductor string
	StartDate string
	EndDate   string
}

type GenerateReportRequest struct {
	Type      string `json:"type"                validate:"omitempty,oneof=general conductor"`
	Conductor string `json:"conductor,omitempty" validate:"omitempty,max=100"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type StatusBreakdown struct {
	Status     int     `json:"status"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type TypeBreakdown struct {
	Type       string  `json:"type"`
	Status     int     `json:"status"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type Stats struct {
	Conductor   string            `json:"conductor,omitempty"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Total       int               `json:"total"`
	Pending     int               `json:"pending"`
	Delivered   int               `json:"delivered"`
	Returned    int               `json:"returned"`
	SuccessRate float64           `json:"successRate"`
	TotalValue  float64           `json:"totalValue"`
	ByStatus    []StatusBreakdown `json:"byStatus"`
	ByType      []TypeBreakdown   `json:"byType,omitempty"`
}

type ReportResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Conductor   *string   `json:"conductor,omitempty"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type GeneratedReport struct {
	Report ReportResponse `json:"report"`
	Stats  *Stats         `json:"stats"`
}

// buildStats folds status buckets into the derived totals.
func buildStats(buckets []Bucket) *Stats {
	s := &Stats{ByStatus: make([]StatusBreakdown, 0, len(buckets))}

	for _, b := range buckets {
		s.Total += b.Count
		s.TotalValue += b.TotalValue

		switch b.Status {
		case delivery.StatusPending:
			s.Pending += b.Count
		case delivery.StatusDelivered:
			s.Delivered += b.Count
		case delivery.StatusReturned:
			s.Returned += b.Count
		}

		s.ByStatus = append(s.ByStatus, StatusBreakdown{
			Status:     b.Status,
			Count:      b.Count,
			TotalValue: b.TotalValue,
		})
	}

	s.SuccessRate = successRate(s.Delivered, s.Returned)
	s.TotalValue = roundCents(s.TotalValue)

	return s
}

// successRate is delivered / (delivered + returned) as a percentage with
// two decimals. Pending packages do not count either way.
func successRate(delivered, returned int) float64 {
	closed := delivered + returned
	if closed == 0 {
		return 0
	}
	return roundCents(float64(delivered) / float64(closed) * 100)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func toTypeBreakdown(buckets []Bucket) []TypeBreakdown {
	out := make([]TypeBreakdown, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TypeBreakdown(b))
	}
	return out
}

func ToReportResponse(r *Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		Type:        r.Type,
		Conductor:   r.Conductor,
		StartDate:   r.StartDate.Format(time.DateOnly),
		EndDate:     r.EndDate.Format(time.DateOnly),
		GeneratedAt: r.GeneratedAt,
	}
}

func ToReportResponseList(rs []Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(rs))
	for i := range rs {
		out = append(out, ToReportResponse(&rs[i]))
	}
	return out
}
