// pkg/ai/mock_client.go

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"brightideas/entities"
)

type mockClient struct{}

// NewMock answers from canned templates. Used when no API key is configured.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Name() string { return "mock" }

var titleRX = regexp.MustCompile(`Title: "([^"]*)"`)

func promptTitle(req ChatRequest) string {
	for _, msg := range req.Messages {
		if mt := titleRX.FindStringSubmatch(msg.Content); mt != nil {
			return mt[1]
		}
	}
	return "this idea"
}

func (m *mockClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	title := promptTitle(req)
	switch req.Task {
	case TaskQuestions:
		qs := []entities.Question{
			{ID: "q1", Question: fmt.Sprintf("Who would use %s day to day, and what problem does it remove for them?", title)},
			{ID: "q2", Question: "Which platform should the first version run on: web, mobile, or a device?"},
			{ID: "q3", Question: "What existing tools do people use for this today, and where do they fall short?"},
			{ID: "q4", Question: "What would a successful first month look like?"},
		}
		b, _ := json.Marshal(qs)
		return string(b), nil
	case TaskPlan:
		plan := map[string]any{
			"summary": fmt.Sprintf("%s: a focused first release built around the answers gathered during refinement.", title),
			"steps": []map[string]any{
				{"order": 1, "title": "Research and Planning", "description": "Confirm the target users and list the must-have features", "estimated_time": "1 week"},
				{"order": 2, "title": "Prototype", "description": "Build a clickable prototype of the core flow", "estimated_time": "2 weeks"},
				{"order": 3, "title": "Pilot", "description": "Run the prototype with five real users and collect feedback", "estimated_time": "1 week"},
			},
			"resources": []map[string]any{
				{"title": "Figma", "url": "https://figma.com", "type": "tool", "description": "Mockups and prototypes"},
			},
		}
		b, _ := json.Marshal(plan)
		return string(b), nil
	}
	return "", fmt.Errorf("mock: unknown task %q", req.Task)
}
