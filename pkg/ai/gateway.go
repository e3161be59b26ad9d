package ai

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"brightideas/entities"
	"brightideas/pkg/apperr"
)

type GatewayConfig struct {
	Timeout          time.Duration
	MaxTokens        int
	MaxResponseChars int
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Timeout: 30 * time.Second, MaxTokens: 2000, MaxResponseChars: 64 * 1024}
}

// Result carries a usable value even when the model call failed. Fallback
// is set when Value is the canned result; Err keeps the cause for logging.
type Result[T any] struct {
	Value    T
	Fallback bool
	Err      error
}

// Gateway isolates model calls from the services: it bounds every call in
// time and size and degrades to a fixed result instead of failing.
// There are no retries.
type Gateway struct {
	client Client
	cfg    GatewayConfig
}

func NewGateway(client Client, cfg GatewayConfig) *Gateway {
	def := DefaultGatewayConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.MaxResponseChars <= 0 {
		cfg.MaxResponseChars = def.MaxResponseChars
	}
	return &Gateway{client: client, cfg: cfg}
}

func (g *Gateway) Mode() string { return g.client.Name() }

func (g *Gateway) call(ctx context.Context, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	if req.MaxTokens <= 0 || req.MaxTokens > g.cfg.MaxTokens {
		req.MaxTokens = g.cfg.MaxTokens
	}
	start := time.Now()
	content, err := g.client.Complete(ctx, req)
	if err != nil {
		return "", apperr.External("language model call failed", err)
	}
	if n := utf8.RuneCountInString(content); n > g.cfg.MaxResponseChars {
		return "", apperr.External("language model response too large", fmt.Errorf("%d chars", n))
	}
	log.Printf("[ai] %s %s ok in %s", g.client.Name(), req.Task, time.Since(start).Round(time.Millisecond))
	return content, nil
}

func (g *Gateway) GenerateQuestions(ctx context.Context, ic IdeaContext) Result[[]entities.Question] {
	content, err := g.call(ctx, ChatRequest{
		Task: TaskQuestions,
		Messages: []Message{
			{Role: "system", Content: questionsSystem},
			{Role: "user", Content: renderQuestionsPrompt(ic)},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err == nil {
		var qs []entities.Question
		if qs, err = parseQuestions(content); err == nil {
			return Result[[]entities.Question]{Value: qs}
		}
		err = apperr.External("unusable questions from language model", err)
	}
	log.Printf("[ai] questions fallback for %q: %v", ic.Title, err)
	return Result[[]entities.Question]{Value: FallbackQuestions(), Fallback: true, Err: err}
}

func (g *Gateway) GeneratePlan(ctx context.Context, ic IdeaContext, qa []entities.QA) Result[entities.PlanContent] {
	content, err := g.call(ctx, ChatRequest{
		Task: TaskPlan,
		Messages: []Message{
			{Role: "system", Content: planSystem},
			{Role: "user", Content: renderPlanPrompt(ic, qa)},
		},
		Temperature: 0.5,
		MaxTokens:   2000,
	})
	if err == nil {
		var pc entities.PlanContent
		if pc, err = parsePlan(content); err == nil {
			return Result[entities.PlanContent]{Value: pc}
		}
		err = apperr.External("unusable plan from language model", err)
	}
	log.Printf("[ai] plan fallback for %q: %v", ic.Title, err)
	return Result[entities.PlanContent]{Value: FallbackPlan(ic.Title, ic.Description), Fallback: true, Err: err}
}

func FallbackQuestions() []entities.Question {
	return []entities.Question{
		{ID: "q1", Question: "Who are your target users and what specific problem does this solve for them?"},
		{ID: "q2", Question: "How do you plan to build and deliver this solution?"},
		{ID: "q3", Question: "What makes your approach different from existing solutions?"},
		{ID: "q4", Question: "What's your timeline and what resources do you have available?"},
	}
}

// FallbackPlan is the minimal valid plan: a summary and one generic step.
func FallbackPlan(title, description string) entities.PlanContent {
	desc := description
	if utf8.RuneCountInString(desc) > 100 {
		desc = string([]rune(desc)[:100]) + "..."
	}
	est := "2-4 weeks"
	return entities.PlanContent{
		Summary: fmt.Sprintf("Implementation plan for '%s': %s This plan needs to be refined with more specific details.", title, desc),
		Steps: []entities.Step{{
			Order:         1,
			Title:         "Define and build a first version",
			Description:   "Write down the core requirements, build the smallest useful version and test it with real users.",
			EstimatedTime: &est,
		}},
		Resources: []entities.Resource{},
	}
}
