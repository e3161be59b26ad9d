package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"brightideas/entities"
)

type call struct {
	method, path string
	body         string
}

// stubAPI answers every request with the canned body for "METHOD path" and
// records what it saw.
func stubAPI(t *testing.T, routes map[string]any) (string, *[]call) {
	t.Helper()
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(b)})
		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Idea not found", "kind": "not_found"})
			return
		}
		if s, ok := resp.(string); ok {
			w.Header().Set("Content-Disposition", `attachment; filename="x_plan.md"`)
			io.WriteString(w, s)
			return
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv.URL, &calls
}

func run(t *testing.T, url string, confirm func(string) (bool, error), args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{out: &out, confirm: confirm}
	if confirm == nil {
		a.confirm = func(string) (bool, error) {
			t.Fatal("unexpected confirmation prompt")
			return false, nil
		}
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(append([]string{"--url", url}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIdeasList(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	url, calls := stubAPI(t, map[string]any{
		"GET /ideas": []entities.Idea{
			{ID: "i1", Title: "Bike Kiosk", Status: entities.IdeaPlanned, Tags: []string{"city", "bikes"}, UpdatedAt: ts},
		},
	})
	out, err := run(t, url, nil, "ideas", "list", "--tag", "city", "--all")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"STATUS", "Bike Kiosk", "planned", "city,bikes", "2026-03-01 09:30", "1 active", "Tags: bikes(1) city(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(*calls) != 1 {
		t.Fatalf("calls = %v", *calls)
	}
}

func TestIdeasShowIncludesPlans(t *testing.T) {
	url, calls := stubAPI(t, map[string]any{
		"GET /ideas/i1": entities.IdeaDetail{
			Idea:      entities.Idea{ID: "i1", Title: "Bike Kiosk", OriginalDescription: "Self-service repairs", Status: entities.IdeaPlanned},
			PlanCount: 1,
		},
		"GET /ideas/i1/plans": []entities.Plan{{ID: "p1", Status: entities.PlanDraft, Source: entities.SourceUpload, IsActive: true}},
	})
	out, err := run(t, url, nil, "ideas", "show", "i1")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Bike Kiosk", "Self-service repairs", "Plans: 1", "p1", "upload"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(*calls) != 2 {
		t.Errorf("calls = %v", *calls)
	}
}

func TestIdeasAddSendsTags(t *testing.T) {
	url, calls := stubAPI(t, map[string]any{
		"POST /ideas": entities.Idea{ID: "i9", Title: "Garden"},
	})
	out, err := run(t, url, nil, "ideas", "add", "Garden", "-d", "grow food", "-t", "food", "-t", "outdoor")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Captured Garden (i9)") {
		t.Errorf("out = %q", out)
	}
	var sent map[string]any
	json.Unmarshal([]byte((*calls)[0].body), &sent)
	if sent["original_description"] != "grow food" || !reflect.DeepEqual(sent["tags"], []any{"food", "outdoor"}) {
		t.Errorf("sent = %v", sent)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	url, calls := stubAPI(t, map[string]any{"DELETE /ideas/i1": map[string]string{"message": "Idea deleted successfully"}})

	_, err := run(t, url, func(string) (bool, error) { return false, nil }, "ideas", "delete", "i1")
	if !errors.Is(err, errNotConfirmed) {
		t.Fatalf("err = %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("request sent without confirmation: %v", *calls)
	}

	out, err := run(t, url, nil, "ideas", "delete", "i1", "--yes")
	if err != nil || !strings.Contains(out, "Idea deleted") {
		t.Fatalf("out = %q, err = %v", out, err)
	}
	if len(*calls) != 1 || (*calls)[0].method != http.MethodDelete {
		t.Errorf("calls = %v", *calls)
	}
}

func TestAPIErrorIsOneLine(t *testing.T) {
	url, _ := stubAPI(t, nil)
	_, err := run(t, url, nil, "ideas", "show", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := errorLine(err); got != "Idea not found" {
		t.Errorf("errorLine = %q", got)
	}
}

func TestRefineAnswer(t *testing.T) {
	url, calls := stubAPI(t, map[string]any{
		"PUT /refinement/sessions/s1/answers": entities.RefinementSession{
			ID:        "s1",
			Questions: []entities.Question{{ID: "q1", Question: "Who is it for?"}},
			Answers:   map[string]string{"q1": "Gardeners"},
		},
	})
	out, err := run(t, url, nil, "refine", "answer", "s1", "q1=Gardeners", "q2=")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[q1] Who is it for?") || !strings.Contains(out, "> Gardeners") {
		t.Errorf("out = %q", out)
	}
	var sent struct{ Answers map[string]string }
	json.Unmarshal([]byte((*calls)[0].body), &sent)
	if !reflect.DeepEqual(sent.Answers, map[string]string{"q1": "Gardeners", "q2": ""}) {
		t.Errorf("sent = %v", sent.Answers)
	}
}

func TestParseAnswersRejectsBadPairs(t *testing.T) {
	for _, arg := range []string{"noequals", "=text", " =x"} {
		if _, err := parseAnswers([]string{arg}); err == nil {
			t.Errorf("%q: expected error", arg)
		}
	}
}

func TestPlansExportToStdout(t *testing.T) {
	url, _ := stubAPI(t, map[string]any{"GET /plans/p1/export/markdown": "# Plan\n"})
	out, err := run(t, url, nil, "plans", "export", "p1", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	if out != "# Plan\n" {
		t.Errorf("out = %q", out)
	}
}

func TestRenderPlan(t *testing.T) {
	est := "2 days"
	link := "https://example.com"
	var b bytes.Buffer
	renderPlan(&b, &entities.Plan{
		ID:        "p1",
		Title:     "Kiosk",
		Summary:   "Build it",
		Status:    entities.PlanGenerated,
		Steps:     []entities.Step{{Order: 1, Title: "Prototype", Description: "Make one", EstimatedTime: &est}},
		Resources: []entities.Resource{{Title: "Docs", URL: &link, Type: "article"}},
	})
	for _, want := range []string{"Kiosk", "Build it", "1. Prototype", "(2 days)", "Make one", "- Docs [article] https://example.com"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("missing %q in:\n%s", want, b.String())
		}
	}
}
