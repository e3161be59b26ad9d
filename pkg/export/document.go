// Package export serializes plans for download: Markdown, a JSON document
// that can be imported again, and an Excel workbook.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"brightideas/entities"
)

const DocumentVersion = "1.0"

type Document struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Idea       IdeaInfo  `json:"idea"`
	Plan       PlanInfo  `json:"plan"`
}

type IdeaInfo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

type PlanInfo struct {
	ID        string              `json:"id"`
	Title     string              `json:"title,omitempty"`
	Summary   string              `json:"summary"`
	Steps     []entities.Step     `json:"steps"`
	Resources []entities.Resource `json:"resources"`
	Status    string              `json:"status"`
	IsActive  bool                `json:"is_active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewDocument(idea *entities.Idea, plan *entities.Plan, now time.Time) Document {
	c := plan.Content()
	if c.Steps == nil {
		c.Steps = []entities.Step{}
	}
	if c.Resources == nil {
		c.Resources = []entities.Resource{}
	}
	return Document{
		Version:    DocumentVersion,
		ExportedAt: now.UTC(),
		Idea: IdeaInfo{
			ID:          idea.ID,
			Title:       idea.Title,
			Description: idea.OriginalDescription,
			Tags:        idea.Tags,
			Status:      string(idea.Status),
		},
		Plan: PlanInfo{
			ID:        plan.ID,
			Title:     plan.Title,
			Summary:   c.Summary,
			Steps:     c.Steps,
			Resources: c.Resources,
			Status:    string(plan.Status),
			IsActive:  plan.IsActive,
			CreatedAt: plan.CreatedAt,
			UpdatedAt: plan.UpdatedAt,
		},
	}
}

// Content rebuilds the plan body carried by the document.
func (d Document) Content() entities.PlanContent {
	return entities.PlanContent{
		Summary:   d.Plan.Summary,
		Steps:     d.Plan.Steps,
		Resources: d.Plan.Resources,
	}
}

var ErrNotDocument = errors.New("not an exported plan document")

// DecodeDocument reads a document produced by NewDocument.
func DecodeDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}
	if d.Version == "" || (strings.TrimSpace(d.Plan.Summary) == "" && len(d.Plan.Steps) == 0) {
		return d, ErrNotDocument
	}
	return d, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Filename builds "<title>_plan.<ext>" with spaces as underscores.
func Filename(title, ext string) string {
	base := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	base = unsafeName.ReplaceAllString(base, "")
	if base == "" {
		base = "idea"
	}
	return base + "_plan." + ext
}
