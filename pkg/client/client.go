// Package client talks to the Bright Ideas REST API and keeps observable
// client-side state for tools built on it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"brightideas/entities"
	"brightideas/pkg/export"
	refineSvc "brightideas/pkg/refinement/service"
)

const DefaultBaseURL = "http://localhost:8000/api/v1"

// APIError is a non-2xx response decoded from {"error","kind"}.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Kind)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

type Client struct {
	base  string
	httpc *http.Client
}

func New(baseURL string, httpc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

func (c *Client) raw(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if json.Unmarshal(b, &body) != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(b))
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
	}
	return &APIError{Status: resp.StatusCode, Kind: body.Kind, Message: body.Error}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.raw(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Ideas

type NewIdea struct {
	Title               string   `json:"title"`
	OriginalDescription string   `json:"original_description"`
	Tags                []string `json:"tags,omitempty"`
}

type IdeaPatch struct {
	Title  *string              `json:"title,omitempty"`
	Tags   *[]string            `json:"tags,omitempty"`
	Status *entities.IdeaStatus `json:"status,omitempty"`
}

type ListOptions struct {
	Search          string
	Tags            []string
	Status          entities.IdeaStatus
	IncludeArchived bool
	Sort            string
	Order           string
	Skip            int
	Limit           int
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if len(o.Tags) > 0 {
		q.Set("tags", strings.Join(o.Tags, ","))
	}
	if o.Status != "" {
		q.Set("status", string(o.Status))
	}
	if o.IncludeArchived {
		q.Set("include_archived", "true")
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	if o.Skip > 0 {
		q.Set("skip", strconv.Itoa(o.Skip))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) CreateIdea(ctx context.Context, in NewIdea) (*entities.Idea, error) {
	var out entities.Idea
	return &out, c.do(ctx, http.MethodPost, "/ideas", in, &out)
}

func (c *Client) ListIdeas(ctx context.Context, o ListOptions) ([]entities.Idea, error) {
	var out []entities.Idea
	return out, c.do(ctx, http.MethodGet, "/ideas"+o.query(), nil, &out)
}

func (c *Client) RecentIdeas(ctx context.Context, limit int) ([]entities.Idea, error) {
	path := "/ideas/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []entities.Idea
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) Stats(ctx context.Context) (*entities.IdeaStats, error) {
	var out entities.IdeaStats
	return &out, c.do(ctx, http.MethodGet, "/ideas/stats", nil, &out)
}

func (c *Client) GetIdea(ctx context.Context, id string) (*entities.IdeaDetail, error) {
	var out entities.IdeaDetail
	return &out, c.do(ctx, http.MethodGet, "/ideas/"+url.PathEscape(id), nil, &out)
}

func (c *Client) UpdateIdea(ctx context.Context, id string, p IdeaPatch) (*entities.Idea, error) {
	var out entities.Idea
	return &out, c.do(ctx, http.MethodPut, "/ideas/"+url.PathEscape(id), p, &out)
}

func (c *Client) DeleteIdea(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/ideas/"+url.PathEscape(id), nil, nil)
}

func (c *Client) TransitionIdea(ctx context.Context, id string, to entities.IdeaStatus) (*entities.Idea, error) {
	var out entities.Idea
	return &out, c.do(ctx, http.MethodPost, "/ideas/"+url.PathEscape(id)+"/transition", map[string]entities.IdeaStatus{"status": to}, &out)
}

func (c *Client) ArchiveIdea(ctx context.Context, id string) (*entities.Idea, error) {
	var out entities.Idea
	return &out, c.do(ctx, http.MethodPost, "/ideas/"+url.PathEscape(id)+"/archive", nil, &out)
}

func (c *Client) RestoreIdea(ctx context.Context, id string) (*entities.Idea, error) {
	var out entities.Idea
	return &out, c.do(ctx, http.MethodPost, "/ideas/"+url.PathEscape(id)+"/restore", nil, &out)
}

// Refinement

func (c *Client) StartRefinement(ctx context.Context, ideaID string) (*entities.RefinementSession, error) {
	var out entities.RefinementSession
	return &out, c.do(ctx, http.MethodPost, "/refinement/sessions", map[string]string{"idea_id": ideaID}, &out)
}

func (c *Client) GetSession(ctx context.Context, id string) (*entities.RefinementSession, error) {
	var out entities.RefinementSession
	return &out, c.do(ctx, http.MethodGet, "/refinement/sessions/"+url.PathEscape(id), nil, &out)
}

func (c *Client) SubmitAnswers(ctx context.Context, sessionID string, answers map[string]string) (*entities.RefinementSession, error) {
	var out entities.RefinementSession
	return &out, c.do(ctx, http.MethodPut, "/refinement/sessions/"+url.PathEscape(sessionID)+"/answers", map[string]any{"answers": answers}, &out)
}

func (c *Client) CompleteSession(ctx context.Context, sessionID string) (*entities.RefinementSession, error) {
	var out entities.RefinementSession
	return &out, c.do(ctx, http.MethodPost, "/refinement/sessions/"+url.PathEscape(sessionID)+"/complete", nil, &out)
}

func (c *Client) ListSessions(ctx context.Context, ideaID string) ([]entities.RefinementSession, error) {
	var out []entities.RefinementSession
	return out, c.do(ctx, http.MethodGet, "/ideas/"+url.PathEscape(ideaID)+"/sessions", nil, &out)
}

func (c *Client) PreviewQuestions(ctx context.Context, ideaID string) (*refineSvc.QuestionPreview, error) {
	var out refineSvc.QuestionPreview
	return &out, c.do(ctx, http.MethodPost, "/refinement/questions/generate", map[string]string{"idea_id": ideaID}, &out)
}

// Plans

type PlanPatch struct {
	Title     *string              `json:"title,omitempty"`
	Summary   *string              `json:"summary,omitempty"`
	Steps     *[]entities.Step     `json:"steps,omitempty"`
	Resources *[]entities.Resource `json:"resources,omitempty"`
	Status    *entities.PlanStatus `json:"status,omitempty"`
}

func (c *Client) GeneratePlan(ctx context.Context, sessionID string) (*entities.Plan, error) {
	var out entities.Plan
	return &out, c.do(ctx, http.MethodPost, "/plans/generate", map[string]string{"refinement_session_id": sessionID}, &out)
}

func (c *Client) GetPlan(ctx context.Context, id string) (*entities.Plan, error) {
	var out entities.Plan
	return &out, c.do(ctx, http.MethodGet, "/plans/"+url.PathEscape(id), nil, &out)
}

func (c *Client) ListPlans(ctx context.Context, ideaID string) ([]entities.Plan, error) {
	var out []entities.Plan
	return out, c.do(ctx, http.MethodGet, "/ideas/"+url.PathEscape(ideaID)+"/plans", nil, &out)
}

func (c *Client) UpdatePlan(ctx context.Context, id string, p PlanPatch) (*entities.Plan, error) {
	var out entities.Plan
	return &out, c.do(ctx, http.MethodPut, "/plans/"+url.PathEscape(id), p, &out)
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/plans/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ActivatePlan(ctx context.Context, id string) (*entities.Plan, error) {
	var out entities.Plan
	return &out, c.do(ctx, http.MethodPost, "/plans/"+url.PathEscape(id)+"/activate", nil, &out)
}

func (c *Client) DeactivatePlan(ctx context.Context, id string) (*entities.Plan, error) {
	var out entities.Plan
	return &out, c.do(ctx, http.MethodPost, "/plans/"+url.PathEscape(id)+"/deactivate", nil, &out)
}

func (c *Client) UploadPlan(ctx context.Context, ideaID, content, title string) (*entities.Plan, error) {
	var out entities.Plan
	body := map[string]string{"content": content, "title": title}
	return &out, c.do(ctx, http.MethodPost, "/ideas/"+url.PathEscape(ideaID)+"/plans/upload", body, &out)
}

// Export downloads a plan as "markdown", "json" or "xlsx" and returns the
// server's suggested filename with the file body.
func (c *Client) Export(ctx context.Context, planID, format string) (string, []byte, error) {
	resp, err := c.raw(ctx, http.MethodGet, "/plans/"+url.PathEscape(planID)+"/export/"+url.PathEscape(format), nil)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return name, data, nil
}

// ExportDocument fetches the JSON export and decodes it.
func (c *Client) ExportDocument(ctx context.Context, planID string) (export.Document, error) {
	_, data, err := c.Export(ctx, planID, "json")
	if err != nil {
		return export.Document{}, err
	}
	return export.DecodeDocument(data)
}
