package service

import (
	"context"

	"brightideas/entities"
)

type CreateInput struct {
	Title               string   `json:"title"`
	OriginalDescription string   `json:"original_description"`
	Tags                []string `json:"tags"`
}

// IdeaPatch changes only the non-nil fields.
type IdeaPatch struct {
	Title               *string              `json:"title"`
	OriginalDescription *string              `json:"original_description"`
	Tags                *[]string            `json:"tags"`
	Status              *entities.IdeaStatus `json:"status"`
}

type ListFilter struct {
	Search          string
	Tags            []string
	Status          entities.IdeaStatus
	IncludeArchived bool
	Sort            string
	Order           string
	Skip            int
	Limit           int
}

const (
	DefaultListLimit   = 100
	MaxListLimit       = 1000
	DefaultRecentLimit = 5
	MaxRecentLimit     = 20
	TopTagCount        = 10
)

type IdeaService interface {
	Create(ctx context.Context, in CreateInput) (*entities.Idea, error)
	Get(ctx context.Context, id string) (*entities.IdeaDetail, error)
	Update(ctx context.Context, id string, p IdeaPatch) (*entities.Idea, error)
	Transition(ctx context.Context, id string, to entities.IdeaStatus) (*entities.Idea, error)
	Archive(ctx context.Context, id string) (*entities.Idea, error)
	Restore(ctx context.Context, id string) (*entities.Idea, error)
	List(ctx context.Context, f ListFilter) ([]entities.Idea, error)
	Recent(ctx context.Context, limit int) ([]entities.Idea, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entities.IdeaStats, error)
}
