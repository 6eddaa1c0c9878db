// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker {
	return pingFunc(func(context.Context) error { return nil })
}

func failing() Checker {
	return pingFunc(func(context.Context) error { return errors.New("down") })
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		deps       []Dependency
		wantStatus int
		wantBody   string
	}{
		{
			name: "all healthy",
			deps: []Dependency{
				{Name: "database", Checker: healthy()},
				{Name: "redis", Checker: healthy()},
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "redis down",
			deps: []Dependency{
				{Name: "database", Checker: healthy()},
				{Name: "redis", Checker: failing()},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
		{
			name:       "unconfigured checker",
			deps:       []Dependency{{Name: "database"}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler("1.0.0", tt.deps...), "/readyz")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ReadinessResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Errorf("status field = %q, want %q", body.Status, tt.wantBody)
			}
			if len(body.Checks) != len(tt.deps) {
				t.Errorf("got %d checks, want %d", len(body.Checks), len(tt.deps))
			}
		})
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler("1.0.0", Dependency{Name: "database", Checker: healthy()})

	if rec := serve(h, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("liveness before shutdown = %d", rec.Code)
	}

	h.SetShutdown(true)

	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		if rec := serve(h, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s after shutdown = %d, want 503", path, rec.Code)
		}
	}
}

func TestNotReady(t *testing.T) {
	h := NewHandler("1.0.0")
	h.SetReady(false)

	if rec := serve(h, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz while not ready = %d", rec.Code)
	}
}
