package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"brightideas/entities"
)

const (
	MinQuestions = 3
	MaxQuestions = 7
)

// extractJSON strips code fences and surrounding prose, returning the
// outermost JSON array or object in s.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

type rawQuestion struct {
	ID       any    `json:"id"`
	Question string `json:"question"`
	Text     string `json:"text"`
}

func parseQuestions(content string) ([]entities.Question, error) {
	payload := extractJSON(content)

	var raws []rawQuestion
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		var wrapped struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err2 := json.Unmarshal([]byte(payload), &wrapped); err2 != nil {
			var plain []string
			if err3 := json.Unmarshal([]byte(payload), &plain); err3 != nil {
				return nil, fmt.Errorf("parse questions: %w", err)
			}
			for _, p := range plain {
				raws = append(raws, rawQuestion{Question: p})
			}
		} else {
			raws = wrapped.Questions
		}
	}

	out := make([]entities.Question, 0, len(raws))
	seenID := map[string]bool{}
	seenText := map[string]bool{}
	for _, r := range raws {
		text := strings.TrimSpace(r.Question)
		if text == "" {
			text = strings.TrimSpace(r.Text)
		}
		key := strings.ToLower(text)
		if text == "" || seenText[key] {
			continue
		}
		seenText[key] = true
		id := ""
		if r.ID != nil {
			id = strings.TrimSpace(fmt.Sprint(r.ID))
		}
		if id == "" || seenID[id] {
			id = "q" + strconv.Itoa(len(out)+1)
			for seenID[id] {
				id += "_"
			}
		}
		seenID[id] = true
		out = append(out, entities.Question{ID: id, Question: text})
		if len(out) == MaxQuestions {
			break
		}
	}
	if len(out) < MinQuestions {
		return nil, fmt.Errorf("model returned %d usable questions, need at least %d", len(out), MinQuestions)
	}
	return out, nil
}

type rawStep struct {
	Order         any     `json:"order"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	EstimatedTime *string `json:"estimated_time"`
}

type rawResource struct {
	Title       string  `json:"title"`
	URL         *string `json:"url"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
}

func parsePlan(content string) (entities.PlanContent, error) {
	var raw struct {
		Summary   string        `json:"summary"`
		Steps     []rawStep     `json:"steps"`
		Resources []rawResource `json:"resources"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &raw); err != nil {
		return entities.PlanContent{}, fmt.Errorf("parse plan: %w", err)
	}
	pc := entities.PlanContent{Summary: strings.TrimSpace(raw.Summary)}
	if pc.Summary == "" {
		return pc, errors.New("plan has no summary")
	}
	for _, s := range raw.Steps {
		title := strings.TrimSpace(s.Title)
		desc := strings.TrimSpace(s.Description)
		if title == "" && desc == "" {
			continue
		}
		if title == "" {
			title = fmt.Sprintf("Step %d", len(pc.Steps)+1)
		}
		pc.Steps = append(pc.Steps, entities.Step{
			Order:         toInt(s.Order),
			Title:         title,
			Description:   desc,
			EstimatedTime: trimPtr(s.EstimatedTime),
		})
	}
	if len(pc.Steps) == 0 {
		return pc, errors.New("plan has no steps")
	}
	pc.Steps = entities.NormalizeSteps(pc.Steps)

	pc.Resources = make([]entities.Resource, 0, len(raw.Resources))
	for _, r := range raw.Resources {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		typ := strings.ToLower(strings.TrimSpace(r.Type))
		if typ == "" {
			typ = "tool"
		}
		pc.Resources = append(pc.Resources, entities.Resource{
			Title:       title,
			URL:         trimPtr(r.URL),
			Type:        typ,
			Description: trimPtr(r.Description),
		})
	}
	return pc, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(n, ".")))
		return i
	}
	return 0
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
