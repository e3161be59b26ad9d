package entities

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdeaStatus string

const (
	IdeaCaptured IdeaStatus = "captured"
	IdeaRefining IdeaStatus = "refining"
	IdeaPlanned  IdeaStatus = "planned"
	IdeaArchived IdeaStatus = "archived"
)

// IdeaStatuses lists every status in lifecycle order.
var IdeaStatuses = []IdeaStatus{IdeaCaptured, IdeaRefining, IdeaPlanned, IdeaArchived}

func (s IdeaStatus) Valid() bool {
	for _, v := range IdeaStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const MaxTitleLen = 200

type Idea struct {
	ID                  string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title               string     `gorm:"size:200;not null" json:"title"`
	OriginalDescription string     `gorm:"type:text;not null" json:"original_description"`
	Tags                []string   `gorm:"serializer:json" json:"tags"`
	Status              IdeaStatus `gorm:"size:20;not null;default:captured;index" json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `gorm:"index" json:"updated_at"`

	Sessions []RefinementSession `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"-"`
	Plans    []Plan              `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"-"`
}

func (i *Idea) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
	return nil
}

// IdeaDetail is the denormalized view returned by GET /ideas/:id.
type IdeaDetail struct {
	Idea
	LatestSession *RefinementSession `json:"latest_session"`
	ActivePlan    *Plan              `json:"active_plan"`
	HasActivePlan bool               `json:"has_active_plan"`
	SessionCount  int64              `json:"session_count"`
	PlanCount     int64              `json:"plan_count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type IdeaStats struct {
	Total         int64                `json:"total_ideas"`
	ByStatus      map[IdeaStatus]int64 `json:"status_distribution"`
	TotalSessions int64                `json:"total_sessions"`
	TotalPlans    int64                `json:"total_plans"`
	ActivePlans   int64                `json:"active_plans"`
	Tags          []TagCount           `json:"popular_tags"`
}

// NormalizeTags lower-cases, trims and de-duplicates tags, keeping first-seen order.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// TopTags counts tag frequency across ideas; ties break alphabetically.
func TopTags(ideas []Idea, limit int) []TagCount {
	counts := map[string]int{}
	for _, i := range ideas {
		for _, t := range i.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Tag < out[b].Tag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
