package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type RefinementSession struct {
	ID          string                        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	IdeaID      string                        `gorm:"type:varchar(36);not null;index" json:"idea_id"`
	Questions   datatypes.JSONSlice[Question] `json:"questions"`
	Answers     map[string]string             `gorm:"serializer:json" json:"answers"`
	IsComplete  bool                          `gorm:"not null;index" json:"is_complete"`
	CreatedAt   time.Time                     `json:"created_at"`
	CompletedAt *time.Time                    `json:"completed_at"`
}

func (s *RefinementSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	return nil
}

func (s *RefinementSession) hasQuestion(id string) bool {
	for _, q := range s.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// MergeAnswers folds in a partial answer set. Blank answers clear the key;
// ids that are not questions of this session are rejected before anything changes.
func (s *RefinementSession) MergeAnswers(in map[string]string) error {
	for id := range in {
		if !s.hasQuestion(id) {
			return fmt.Errorf("unknown question id %q", id)
		}
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	for id, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			delete(s.Answers, id)
			continue
		}
		s.Answers[id] = a
	}
	return nil
}

// Unanswered returns question ids without a non-empty answer, in question order.
func (s *RefinementSession) Unanswered() []string {
	var out []string
	for _, q := range s.Questions {
		if strings.TrimSpace(s.Answers[q.ID]) == "" {
			out = append(out, q.ID)
		}
	}
	return out
}

// Recompute sets IsComplete from the answers. CompletedAt keeps the first
// completion time and is cleared when the session falls back to incomplete.
func (s *RefinementSession) Recompute(now time.Time) {
	complete := len(s.Questions) > 0 && len(s.Unanswered()) == 0
	switch {
	case complete && s.CompletedAt == nil:
		s.CompletedAt = &now
	case !complete:
		s.CompletedAt = nil
	}
	s.IsComplete = complete
}

// QA is a question paired with its answer.
type QA struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// Pairs returns answered questions in question order.
func (s *RefinementSession) Pairs() []QA {
	out := make([]QA, 0, len(s.Questions))
	for _, q := range s.Questions {
		a := strings.TrimSpace(s.Answers[q.ID])
		if a == "" {
			continue
		}
		out = append(out, QA{QuestionID: q.ID, Question: q.Question, Answer: a})
	}
	return out
}
