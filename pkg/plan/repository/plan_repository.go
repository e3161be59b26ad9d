package repository

import (
	"context"

	"brightideas/entities"
)

type PlanRepository interface {
	// Create stores the plan and the idea's (possibly advanced) status together.
	Create(ctx context.Context, p *entities.Plan, idea *entities.Idea) error
	FindByID(ctx context.Context, id string) (*entities.Plan, error)
	// UpdateContent writes the editable columns of p. is_active is never
	// touched here; only Activate and Deactivate change it.
	UpdateContent(ctx context.Context, p *entities.Plan) error
	Delete(ctx context.Context, id string) error
	ListByIdea(ctx context.Context, ideaID string) ([]entities.Plan, error)
	// Activate makes p the only active plan of its idea.
	Activate(ctx context.Context, p *entities.Plan) error
	Deactivate(ctx context.Context, id string) error
}
