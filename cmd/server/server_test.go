package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"brightideas/config"
	"brightideas/database"
	"brightideas/entities"
	"brightideas/pkg/ai"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close(db) })
	cfg := config.AppConfig{APIPrefix: "/api/v1", Environment: "test"}
	return newServer(cfg, db, ai.NewMock())
}

// do sends a JSON request and decodes the JSON response into out (if non-nil).
func do(t *testing.T, e *echo.Echo, method, path string, in, out any) int {
	t.Helper()
	var body bytes.Buffer
	if in != nil {
		json.NewEncoder(&body).Encode(in)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestIdeaToActivePlan(t *testing.T) {
	e := newTestServer(t)

	var idea entities.Idea
	code := do(t, e, http.MethodPost, "/ideas", map[string]any{
		"title":                "Smart Plant Care Assistant",
		"original_description": "A sensor that tells you when to water your plants",
		"tags":                 []string{"plants"},
	}, &idea)
	if code != http.StatusCreated || idea.Status != entities.IdeaCaptured {
		t.Fatalf("create: %d %+v", code, idea)
	}

	var sess entities.RefinementSession
	if code := do(t, e, http.MethodPost, "/refinement/sessions", map[string]string{"idea_id": idea.ID}, &sess); code != http.StatusOK {
		t.Fatalf("start refinement: %d", code)
	}
	if len(sess.Questions) < 1 {
		t.Fatal("no questions")
	}

	answers := map[string]string{}
	for _, q := range sess.Questions {
		answers[q.ID] = "Answer to " + q.ID
	}
	if code := do(t, e, http.MethodPut, "/refinement/sessions/"+sess.ID+"/answers", map[string]any{"answers": answers}, &sess); code != http.StatusOK {
		t.Fatalf("answers: %d", code)
	}
	if !sess.IsComplete {
		t.Fatal("session not complete after answering every question")
	}

	var plan entities.Plan
	if code := do(t, e, http.MethodPost, "/plans/generate", map[string]string{"refinement_session_id": sess.ID}, &plan); code != http.StatusCreated {
		t.Fatalf("generate: %d", code)
	}
	if plan.Summary == "" || len(plan.Steps) < 1 {
		t.Fatalf("plan = %+v", plan)
	}

	if code := do(t, e, http.MethodPost, "/plans/"+plan.ID+"/activate", nil, &plan); code != http.StatusOK || !plan.IsActive {
		t.Fatalf("activate: %d %+v", code, plan)
	}

	var detail entities.IdeaDetail
	if code := do(t, e, http.MethodGet, "/ideas/"+idea.ID, nil, &detail); code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	if !detail.HasActivePlan || detail.Status != entities.IdeaPlanned || detail.ActivePlan.ID != plan.ID {
		t.Errorf("detail = %+v", detail)
	}
}

func TestUploadScenario(t *testing.T) {
	e := newTestServer(t)
	var idea entities.Idea
	do(t, e, http.MethodPost, "/ideas", map[string]any{"title": "T", "original_description": "D"}, &idea)

	var plan entities.Plan
	code := do(t, e, http.MethodPost, "/ideas/"+idea.ID+"/plans/upload", map[string]string{
		"content": "## Summary\nDo X\n## Steps\n1. First - do thing\n2. Second - do other",
	}, &plan)
	if code != http.StatusCreated {
		t.Fatalf("upload: %d", code)
	}
	if plan.Summary != "Do X" || len(plan.Steps) != 2 || plan.Steps[0].Order != 1 || plan.Steps[1].Order != 2 {
		t.Errorf("plan = %+v", plan)
	}
}

func TestErrorResponses(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name, method, path string
		body               any
		status             int
		kind               string
	}{
		{"missing idea", http.MethodGet, "/ideas/nope", nil, 404, "not_found"},
		{"blank title", http.MethodPost, "/ideas", map[string]string{"title": "", "original_description": "d"}, 400, "validation"},
		{"bad limit", http.MethodGet, "/ideas?limit=abc", nil, 400, "validation"},
		{"missing session id", http.MethodPost, "/plans/generate", map[string]string{}, 400, "validation"},
		{"missing plan", http.MethodPost, "/plans/nope/activate", nil, 404, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			if code := do(t, e, tt.method, tt.path, tt.body, &body); code != tt.status || body["kind"] != tt.kind {
				t.Errorf("got %d %v", code, body)
			}
		})
	}
}

func TestExportEndpoints(t *testing.T) {
	e := newTestServer(t)
	var idea entities.Idea
	do(t, e, http.MethodPost, "/ideas", map[string]any{"title": "Bike Kiosk", "original_description": "D"}, &idea)
	var plan entities.Plan
	do(t, e, http.MethodPost, "/ideas/"+idea.ID+"/plans/upload", map[string]string{"content": "## Steps\n1. Build"}, &plan)

	for _, tt := range []struct{ format, file, ctype string }{
		{"markdown", "Bike_Kiosk_plan.md", "text/markdown"},
		{"json", "Bike_Kiosk_plan.json", "application/json"},
		{"xlsx", "Bike_Kiosk_plan.xlsx", "spreadsheetml"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+plan.ID+"/export/"+tt.format, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", tt.format, rec.Code)
			continue
		}
		if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, tt.file) {
			t.Errorf("%s: disposition %q", tt.format, cd)
		}
		if ct := rec.Header().Get(echo.HeaderContentType); !strings.Contains(ct, tt.ctype) {
			t.Errorf("%s: content type %q", tt.format, ct)
		}
	}
}

func TestHealthUnprefixed(t *testing.T) {
	e := newTestServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ai_mode":"mock"`) {
		t.Errorf("health: %d %s", rec.Code, rec.Body.String())
	}
}
