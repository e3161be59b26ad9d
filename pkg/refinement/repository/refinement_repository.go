package repository

import (
	"context"

	"brightideas/entities"
)

type RefinementRepository interface {
	FindByID(ctx context.Context, id string) (*entities.RefinementSession, error)
	Save(ctx context.Context, s *entities.RefinementSession) error
	// Start stores a new session (when s.ID is empty) and the idea's status
	// together. If another open session for the idea appeared meanwhile, that
	// one is kept and returned instead of creating a second.
	Start(ctx context.Context, s *entities.RefinementSession, idea *entities.Idea) (*entities.RefinementSession, error)
	// OpenSession returns the newest incomplete session, or nil.
	OpenSession(ctx context.Context, ideaID string) (*entities.RefinementSession, error)
	// LatestCompleted returns the newest completed session, or nil.
	LatestCompleted(ctx context.Context, ideaID string) (*entities.RefinementSession, error)
	ListByIdea(ctx context.Context, ideaID string) ([]entities.RefinementSession, error)
}
