package repository

import (
	"context"

	"brightideas/entities"
)

// Query is a validated list request; the service fills in defaults.
type Query struct {
	Search          string
	Tags            []string
	Status          entities.IdeaStatus
	IncludeArchived bool
	SortColumn      string
	Desc            bool
	Skip            int
	Limit           int
}

type IdeaRepository interface {
	Create(ctx context.Context, i *entities.Idea) error
	FindByID(ctx context.Context, id string) (*entities.Idea, error)
	// Update writes only the named columns of i, plus updated_at.
	Update(ctx context.Context, i *entities.Idea, cols ...string) error
	// SetStatus moves the idea to `to` only while its stored status is still
	// `from`; ok is false when another writer changed it first.
	SetStatus(ctx context.Context, id string, from, to entities.IdeaStatus) (ok bool, err error)
	List(ctx context.Context, q Query) ([]entities.Idea, error)
	// Delete removes the idea with its plans and sessions in one transaction.
	Delete(ctx context.Context, id string) error

	LatestSession(ctx context.Context, ideaID string) (*entities.RefinementSession, error)
	ActivePlan(ctx context.Context, ideaID string) (*entities.Plan, error)
	CountSessions(ctx context.Context, ideaID string) (int64, error)
	CountPlans(ctx context.Context, ideaID string) (int64, error)

	CountByStatus(ctx context.Context) (map[entities.IdeaStatus]int64, error)
	Totals(ctx context.Context) (sessions, plans, activePlans int64, err error)
	AllTags(ctx context.Context) ([]entities.Idea, error)
}
