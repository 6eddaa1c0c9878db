// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp
}

func TestJSONErrorMapsAppErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", InvalidInputError("bad"), http.StatusBadRequest, CodeInvalidInput},
		{"unauthorized", UnauthorizedError(""), http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", ForbiddenError(""), http.StatusForbidden, CodeForbidden},
		{"not found", NotFoundError("conductor"), http.StatusNotFound, CodeNotFound},
		{"duplicate", DuplicateError("email"), http.StatusConflict, CodeConflict},
		{
			"wrapped app error",
			fmt.Errorf("outer: %w", NotFoundError("delivery")),
			http.StatusNotFound,
			CodeNotFound,
		},
		{"plain error", errors.New("pq: connection reset"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			resp := decodeResponse(t, rec)
			if resp.Success {
				t.Fatal("expected success=false")
			}
			if resp.Error == nil || resp.Error.Code != tc.wantCode {
				t.Fatalf("error body = %+v, want code %s", resp.Error, tc.wantCode)
			}
		})
	}
}

func TestInternalErrorDoesNotLeakCause(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("dial tcp 10.0.0.5:5432: refused"))

	resp := decodeResponse(t, rec)
	if resp.Error.Message != "internal server error" {
		t.Fatalf("message leaked cause: %q", resp.Error.Message)
	}
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2}, 2, 50, 101)

	resp := decodeResponse(t, rec)
	if !resp.Success || resp.Pagination == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Pagination.Pages != 3 {
		t.Fatalf("pages = %d, want 3", resp.Pagination.Pages)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("create conductor: %w", DuplicateError("conductor"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatal("expected wrapped AppError to match ErrDuplicateKey")
	}
	if !IsAppError(err) {
		t.Fatal("expected IsAppError to see through wrapping")
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{0, 50, 1},
		{-4, 50, 1},
		{3, 50, 3},
		{math.MaxInt, 200, math.MaxInt32/200 + 1},
		{math.MaxInt, 0, math.MaxInt32 + 1},
	}

	for _, tt := range tests {
		got := ClampPage(tt.page, tt.limit)
		if got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
		if limit := max(tt.limit, 1); (got-1)*limit > math.MaxInt32 {
			t.Errorf("ClampPage(%d, %d) offset overflows int32", tt.page, tt.limit)
		}
	}
}
