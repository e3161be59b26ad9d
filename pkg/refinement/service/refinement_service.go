package service

import (
	"context"

	"brightideas/entities"
)

// QuestionPreview is a question set generated without opening a session.
type QuestionPreview struct {
	IdeaID    string              `json:"idea_id"`
	Questions []entities.Question `json:"questions"`
	Fallback  bool                `json:"fallback"`
}

type RefinementService interface {
	StartOrResume(ctx context.Context, ideaID string) (*entities.RefinementSession, error)
	Get(ctx context.Context, sessionID string) (*entities.RefinementSession, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers map[string]string) (*entities.RefinementSession, error)
	Complete(ctx context.Context, sessionID string) (*entities.RefinementSession, error)
	ListSessions(ctx context.Context, ideaID string) ([]entities.RefinementSession, error)
	PreviewQuestions(ctx context.Context, ideaID string) (*QuestionPreview, error)
}
