// pkg/ai/client.go

package ai

import (
	"context"

	"brightideas/entities"
)

// Client sends one chat completion and returns the raw assistant text.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	Name() string
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	// Task names the prompt template ("questions" or "plan"); only the mock reads it.
	Task        string    `json:"-"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

const (
	TaskQuestions = "questions"
	TaskPlan      = "plan"
)

// IdeaContext is what the model sees about an idea.
type IdeaContext struct {
	Title       string
	Description string
	Tags        []string
	// Earlier completed refinement, used when an idea is refined again.
	PreviousAnswers   []entities.QA
	ActivePlanSummary string
}
