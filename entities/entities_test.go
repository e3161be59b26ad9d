package entities

import (
	"reflect"
	"testing"
	"time"
)

func newSession() *RefinementSession {
	return &RefinementSession{
		Questions: []Question{
			{ID: "q1", Question: "Who are the users?"},
			{ID: "q2", Question: "How will it be delivered?"},
		},
		Answers: map[string]string{},
	}
}

func TestMergeAnswersRejectsUnknownIDs(t *testing.T) {
	s := newSession()
	s.Answers["q1"] = "gardeners"
	if err := s.MergeAnswers(map[string]string{"q1": "farmers", "q9": "?"}); err == nil {
		t.Fatal("expected error for unknown question id")
	}
	if s.Answers["q1"] != "gardeners" {
		t.Errorf("answers mutated on rejected merge: %v", s.Answers)
	}
}

func TestMergeAnswersBlankClears(t *testing.T) {
	s := newSession()
	_ = s.MergeAnswers(map[string]string{"q1": " gardeners ", "q2": "mobile app"})
	_ = s.MergeAnswers(map[string]string{"q2": "   "})
	want := map[string]string{"q1": "gardeners"}
	if !reflect.DeepEqual(s.Answers, want) {
		t.Errorf("answers = %v, want %v", s.Answers, want)
	}
}

func TestRecompute(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newSession()

	_ = s.MergeAnswers(map[string]string{"q1": "gardeners"})
	s.Recompute(now)
	if s.IsComplete || s.CompletedAt != nil {
		t.Fatalf("partial answers must not complete: %+v", s)
	}
	if got := s.Unanswered(); !reflect.DeepEqual(got, []string{"q2"}) {
		t.Errorf("Unanswered() = %v", got)
	}

	_ = s.MergeAnswers(map[string]string{"q2": "mobile app"})
	s.Recompute(now)
	if !s.IsComplete || s.CompletedAt == nil || !s.CompletedAt.Equal(now) {
		t.Fatalf("expected complete at %v, got %+v", now, s)
	}

	// Recomputing again keeps the first completion time.
	s.Recompute(now.Add(time.Hour))
	if !s.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt moved to %v", s.CompletedAt)
	}

	_ = s.MergeAnswers(map[string]string{"q2": ""})
	s.Recompute(now)
	if s.IsComplete || s.CompletedAt != nil {
		t.Errorf("clearing an answer must reopen the session: %+v", s)
	}
}

func TestRecomputeEmptyQuestionList(t *testing.T) {
	s := &RefinementSession{}
	s.Recompute(time.Now())
	if s.IsComplete {
		t.Error("a session without questions is never complete")
	}
}

func TestPairsFollowQuestionOrder(t *testing.T) {
	s := newSession()
	_ = s.MergeAnswers(map[string]string{"q2": "web", "q1": "cooks"})
	got := s.Pairs()
	if len(got) != 2 || got[0].QuestionID != "q1" || got[1].Answer != "web" {
		t.Errorf("Pairs() = %+v", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Plants", "IoT", "plants", "", "  "})
	want := []string{"plants", "iot"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags() = %v, want %v", got, want)
	}
}

func TestTopTags(t *testing.T) {
	ideas := []Idea{
		{Tags: []string{"plants", "iot"}},
		{Tags: []string{"iot"}},
		{Tags: []string{"ai", "plants"}},
	}
	got := TopTags(ideas, 2)
	want := []TagCount{{"iot", 2}, {"plants", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTags() = %v, want %v", got, want)
	}
}

func TestNormalizeSteps(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"well formed keeps numbering", []int{2, 1, 3}, []int{1, 2, 3}},
		{"gaps are kept", []int{1, 5}, []int{1, 5}},
		{"zero renumbers", []int{0, 0, 0}, []int{1, 2, 3}},
		{"duplicates renumber", []int{1, 1, 2}, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]Step, len(tt.in))
			for i, o := range tt.in {
				in[i] = Step{Order: o}
			}
			out := NormalizeSteps(in)
			got := make([]int, len(out))
			for i, s := range out {
				got[i] = s.Order
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("orders = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortPlans(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []Plan{
		{ID: "old", CreatedAt: base},
		{ID: "active", CreatedAt: base.Add(time.Hour), IsActive: true},
		{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
	}
	SortPlans(ps)
	got := []string{ps[0].ID, ps[1].ID, ps[2].ID}
	want := []string{"active", "new", "old"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestStatusValid(t *testing.T) {
	if !IdeaPlanned.Valid() || IdeaStatus("done").Valid() {
		t.Error("IdeaStatus.Valid mismatch")
	}
	if !PlanEdited.Valid() || PlanStatus("final").Valid() {
		t.Error("PlanStatus.Valid mismatch")
	}
}
