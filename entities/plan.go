package entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanGenerated PlanStatus = "generated"
	PlanEdited    PlanStatus = "edited"
	PlanPublished PlanStatus = "published"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanDraft, PlanGenerated, PlanEdited, PlanPublished:
		return true
	}
	return false
}

// PlanSource records where a plan's content came from.
type PlanSource string

const (
	SourceAI       PlanSource = "ai"
	SourceFallback PlanSource = "fallback"
	SourceUpload   PlanSource = "upload"
)

type Step struct {
	Order         int     `json:"order"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	EstimatedTime *string `json:"estimated_time,omitempty"`
}

type Resource struct {
	Title       string  `json:"title"`
	URL         *string `json:"url,omitempty"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
}

type Plan struct {
	ID                  string                        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	IdeaID              string                        `gorm:"type:varchar(36);not null;index" json:"idea_id"`
	RefinementSessionID *string                       `gorm:"type:varchar(36);index" json:"refinement_session_id"`
	Title               string                        `gorm:"size:200" json:"title,omitempty"`
	Summary             string                        `gorm:"type:text" json:"summary"`
	Steps               datatypes.JSONSlice[Step]     `json:"steps"`
	Resources           datatypes.JSONSlice[Resource] `json:"resources"`
	Status              PlanStatus                    `gorm:"size:20;not null;default:draft" json:"status"`
	IsActive            bool                          `gorm:"not null;index" json:"is_active"`
	ContentMarkdown     string                        `gorm:"type:text" json:"content_markdown,omitempty"`
	Source              PlanSource                    `gorm:"size:20" json:"source"`
	CreatedAt           time.Time                     `json:"created_at"`
	UpdatedAt           time.Time                     `json:"updated_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Steps == nil {
		p.Steps = datatypes.JSONSlice[Step]{}
	}
	if p.Resources == nil {
		p.Resources = datatypes.JSONSlice[Resource]{}
	}
	return nil
}

// PlanContent is the summary/steps/resources shape shared by generated,
// uploaded and imported plans.
type PlanContent struct {
	Summary   string     `json:"summary"`
	Steps     []Step     `json:"steps"`
	Resources []Resource `json:"resources"`
}

func (p *Plan) Content() PlanContent {
	return PlanContent{Summary: p.Summary, Steps: []Step(p.Steps), Resources: []Resource(p.Resources)}
}

func (p *Plan) SetContent(c PlanContent) {
	p.Summary = c.Summary
	p.Steps = datatypes.JSONSlice[Step](NormalizeSteps(c.Steps))
	if c.Resources == nil {
		c.Resources = []Resource{}
	}
	p.Resources = datatypes.JSONSlice[Resource](c.Resources)
}

// NormalizeSteps sorts by order and renumbers 1..n when orders are missing
// or repeated. Well-formed input keeps its numbering.
func NormalizeSteps(in []Step) []Step {
	out := make([]Step, len(in))
	copy(out, in)
	seen := map[int]bool{}
	ok := true
	for _, s := range out {
		if s.Order <= 0 || seen[s.Order] {
			ok = false
			break
		}
		seen[s.Order] = true
	}
	if ok {
		sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
		return out
	}
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// SortPlans orders active plans first, then newest first.
func SortPlans(ps []Plan) {
	sort.SliceStable(ps, func(a, b int) bool {
		if ps[a].IsActive != ps[b].IsActive {
			return ps[a].IsActive
		}
		return ps[a].CreatedAt.After(ps[b].CreatedAt)
	})
}
