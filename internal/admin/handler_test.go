// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/barulogix/barulogix-api/internal/middleware"
)

type fakeOverview struct {
	err error
}

func (f fakeOverview) UsersBy(_ context.Context, column string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if column == "plan" {
		return map[string]int{"free": 4, "pro": 1}, nil
	}
	return map[string]int{"pending": 2, "active": 3}, nil
}

func (f fakeOverview) ConductorCounts(context.Context) (ConductorTotals, error) {
	return ConductorTotals{Active: 7, Inactive: 2}, nil
}

func (f fakeOverview) DeliveriesByStatus(context.Context) (map[string]int, error) {
	return map[string]int{"0": 10, "1": 25, "2": 5}, nil
}

func (f fakeOverview) ReportCount(context.Context) (int, error) {
	return 3, nil
}

func withRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: "someone",
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(ov Overview, role string) http.Handler {
	h := NewHandler(HandlerConfig{
		Overview: ov,
		DBStats:  func() sql.DBStats { return sql.DBStats{OpenConnections: 4} },
		DBPing:   func(context.Context) error { return nil },
		RedisPing: func(context.Context) error {
			return errors.New("connection refused")
		},
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r, withRole(role), middleware.RequireAdmin)
	return r
}

func TestPlatformStats(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(fakeOverview{}, "admin").ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data PlatformStatsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := body.Data
	if got.Users.Total != 5 || got.Users.ByPlan["free"] != 4 {
		t.Errorf("users = %+v", got.Users)
	}
	if got.Conductors.Active != 7 || got.Deliveries.Total != 40 || got.Deliveries.Reports != 3 {
		t.Errorf("conductors=%+v deliveries=%+v", got.Conductors, got.Deliveries)
	}
	if !got.Database.Healthy || got.Redis.Healthy {
		t.Errorf("health db=%v redis=%v", got.Database.Healthy, got.Redis.Healthy)
	}
	if got.Database.Stats == nil || got.Database.Stats.OpenConnections != 4 {
		t.Errorf("db stats = %+v", got.Database.Stats)
	}
}

func TestPlatformStatsAccess(t *testing.T) {
	tests := []struct {
		name string
		ov   Overview
		role string
		want int
	}{
		{"non admin", fakeOverview{}, "user", http.StatusForbidden},
		{"store failure", fakeOverview{err: errors.New("boom")}, "admin", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tt.ov, tt.role).ServeHTTP(rec,
				httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
