// AngelaMos | 2026
// handler_test.go

package conductor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/middleware"
)

func asTenant(tenant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: tenant,
				Role:   "user",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(store *memStore, tenant string) http.Handler {
	r := chi.NewRouter()
	NewHandler(newTestService(store)).RegisterRoutes(r, asTenant(tenant))
	return r
}

func do(h http.Handler, method, target, body string) (*httptest.ResponseRecorder, core.Response) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp core.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestHandlerLifecycle(t *testing.T) {
	store := newMemStore()
	h := newRouter(store, "tenant-a")

	rec, resp := do(h, http.MethodPost, "/conductors", `{"name":"Carlos","phone":"3001234567"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	id := resp.Data.(map[string]any)["id"].(string)

	rec, resp = do(h, http.MethodPost, "/conductors", `{"name":"Carlos"}`)
	if rec.Code != http.StatusConflict || resp.Error.Code != core.CodeConflict {
		t.Errorf("duplicate status = %d", rec.Code)
	}

	rec, _ = do(h, http.MethodPost, "/conductors", `{"name":"C"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short name status = %d", rec.Code)
	}

	rec, _ = do(h, http.MethodPost, "/conductors", `{"name":"Dani","email":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad email status = %d", rec.Code)
	}

	rec, resp = do(h, http.MethodGet, "/conductors", "")
	if rec.Code != http.StatusOK || len(resp.Data.([]any)) != 1 {
		t.Errorf("list status = %d data=%v", rec.Code, resp.Data)
	}

	store.deliveries = []delivery{{"tenant-a", id, "T1"}}

	rec, _ = do(h, http.MethodDelete, "/conductors?id="+id+"&deleteDeliveries=maybe", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad flag status = %d", rec.Code)
	}

	rec, resp = do(h, http.MethodDelete, "/conductors?id="+id+"&deleteDeliveries=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := resp.Data.(map[string]any)["deliveriesDeleted"].(float64); got != 1 {
		t.Errorf("deliveriesDeleted = %v", got)
	}

	rec, _ = do(h, http.MethodDelete, "/conductors", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing id status = %d", rec.Code)
	}
}

func TestHandlerHidesOtherTenants(t *testing.T) {
	store := newMemStore()
	owner := newRouter(store, "tenant-a")
	intruder := newRouter(store, "tenant-b")

	_, resp := do(owner, http.MethodPost, "/conductors", `{"name":"Carlos"}`)
	id := resp.Data.(map[string]any)["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec, _ := do(intruder, method, "/conductors/"+id, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s by other tenant = %d, want 404", method, rec.Code)
		}
	}
}
