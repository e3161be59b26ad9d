package service

import (
	"context"

	"brightideas/entities"
	"brightideas/pkg/export"
)

// PlanPatch changes only the non-nil fields.
type PlanPatch struct {
	Title     *string              `json:"title"`
	Summary   *string              `json:"summary"`
	Steps     *[]entities.Step     `json:"steps"`
	Resources *[]entities.Resource `json:"resources"`
	Status    *entities.PlanStatus `json:"status"`
}

type PlanService interface {
	Generate(ctx context.Context, sessionID string) (*entities.Plan, error)
	Get(ctx context.Context, id string) (*entities.Plan, error)
	List(ctx context.Context, ideaID string) ([]entities.Plan, error)
	Activate(ctx context.Context, id string) (*entities.Plan, error)
	Deactivate(ctx context.Context, id string) (*entities.Plan, error)
	Update(ctx context.Context, id string, p PlanPatch) (*entities.Plan, error)
	Delete(ctx context.Context, id string) error
	UploadFromText(ctx context.Context, ideaID, raw, title string) (*entities.Plan, error)

	ExportMarkdown(ctx context.Context, id string) (filename, text string, err error)
	ExportJSON(ctx context.Context, id string) (filename string, doc export.Document, err error)
	ExportXLSX(ctx context.Context, id string) (filename string, data []byte, err error)
}
