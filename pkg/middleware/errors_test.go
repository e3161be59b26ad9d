package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"brightideas/pkg/apperr"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
		msg    string
	}{
		{"validation", apperr.Validation("title is required"), 400, "validation", "title is required"},
		{"not found", apperr.NotFound("idea"), 404, "not_found", "idea not found"},
		{"external", apperr.External("language model call failed", errors.New("dial tcp")), 502, "external_service", "language model call failed"},
		{"persistence hides detail", apperr.Persistence("save idea", errors.New("disk I/O error")), 500, "persistence", "internal server error"},
		{"unknown", errors.New("boom"), 500, "persistence", "internal server error"},
		{"echo route miss", echo.ErrNotFound, 404, "not_found", "Not Found"},
		{"echo bind", echo.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported media type"), 415, "validation", "unsupported media type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = ErrorHandler
			e.Use(RequestLog())
			e.GET("/x", func(echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body %q: %v", rec.Body.String(), err)
			}
			if body["kind"] != tt.kind || body["error"] != tt.msg {
				t.Errorf("body = %v", body)
			}
		})
	}
}
