package serviceImp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"brightideas/database"
	"brightideas/entities"
	"brightideas/pkg/ai"
	"brightideas/pkg/apperr"
	"brightideas/pkg/export"
	ideaRepoImp "brightideas/pkg/idea/repositoryImp"
	"brightideas/pkg/plan/repository"
	"brightideas/pkg/plan/repositoryImp"
	"brightideas/pkg/plan/service"
	sessionRepoImp "brightideas/pkg/refinement/repositoryImp"
)

type stubPlanner struct {
	fail bool
	qa   []entities.QA
}

func (p *stubPlanner) GeneratePlan(_ context.Context, ic ai.IdeaContext, qa []entities.QA) ai.Result[entities.PlanContent] {
	p.qa = qa
	if p.fail {
		return ai.Result[entities.PlanContent]{Value: ai.FallbackPlan(ic.Title, ic.Description), Fallback: true, Err: apperr.External("down", nil)}
	}
	return ai.Result[entities.PlanContent]{Value: entities.PlanContent{
		Summary: "Build a sensor kit",
		Steps: []entities.Step{
			{Order: 1, Title: "Research", Description: "Interview owners"},
			{Order: 2, Title: "Prototype", Description: "Solder it"},
		},
		Resources: []entities.Resource{{Title: "Arduino", Type: "tool"}},
	}}
}

type fixture struct {
	svc     service.PlanService
	db      *gorm.DB
	planner *stubPlanner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	p := &stubPlanner{}
	return &fixture{
		svc:     NewPlanService(repositoryImp.New(db), ideaRepoImp.New(db), sessionRepoImp.New(db), p),
		db:      db,
		planner: p,
	}
}

func (f *fixture) idea(t *testing.T, status entities.IdeaStatus) *entities.Idea {
	t.Helper()
	i := &entities.Idea{Title: "Smart Plant Care", OriginalDescription: "Soil sensors", Status: status}
	if err := f.db.Create(i).Error; err != nil {
		t.Fatal(err)
	}
	return i
}

func (f *fixture) session(t *testing.T, ideaID string, complete bool) *entities.RefinementSession {
	t.Helper()
	s := &entities.RefinementSession{
		IdeaID:    ideaID,
		Questions: []entities.Question{{ID: "q1", Question: "Who uses it?"}, {ID: "q2", Question: "Which platform?"}},
		Answers:   map[string]string{"q1": "Busy plant owners"},
	}
	if complete {
		s.Answers["q2"] = "Mobile"
		s.Recompute(time.Now())
	}
	if err := f.db.Create(s).Error; err != nil {
		t.Fatal(err)
	}
	return s
}

func (f *fixture) status(t *testing.T, id string) entities.IdeaStatus {
	t.Helper()
	var i entities.Idea
	if err := f.db.First(&i, "id = ?", id).Error; err != nil {
		t.Fatal(err)
	}
	return i.Status
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)

	p, err := f.svc.Generate(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != entities.PlanGenerated || p.IsActive || p.Source != entities.SourceAI {
		t.Errorf("plan = %+v", p)
	}
	if *p.RefinementSessionID != sess.ID || len(p.Steps) != 2 {
		t.Errorf("plan = %+v", p)
	}
	if !strings.Contains(p.ContentMarkdown, "# Smart Plant Care - Implementation Plan") {
		t.Errorf("markdown = %q", p.ContentMarkdown)
	}
	if len(f.planner.qa) != 2 || f.planner.qa[0].Question != "Who uses it?" || f.planner.qa[1].Answer != "Mobile" {
		t.Errorf("planner saw %+v", f.planner.qa)
	}
	if got := f.status(t, i.ID); got != entities.IdeaPlanned {
		t.Errorf("idea status = %s", got)
	}
}

func TestGenerateFallback(t *testing.T) {
	f := newFixture(t)
	f.planner.fail = true
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)

	p, err := f.svc.Generate(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("fallback should not fail: %v", err)
	}
	if p.Source != entities.SourceFallback || len(p.Steps) != 1 || p.Summary == "" {
		t.Errorf("plan = %+v", p)
	}
}

func TestGenerateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Generate(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing session err = %v", err)
	}
	i := f.idea(t, entities.IdeaRefining)
	open := f.session(t, i.ID, false)
	if _, err := f.svc.Generate(ctx, open.ID); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("incomplete session err = %v", err)
	}
	archived := f.idea(t, entities.IdeaArchived)
	done := f.session(t, archived.ID, true)
	if _, err := f.svc.Generate(ctx, done.ID); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("archived idea err = %v", err)
	}
	var n int64
	f.db.Model(&entities.Plan{}).Count(&n)
	if n != 0 {
		t.Errorf("%d plans created by rejected calls", n)
	}
}

func TestActivateIsExclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)
	a, _ := f.svc.Generate(ctx, sess.ID)
	b, _ := f.svc.Generate(ctx, sess.ID)
	c, _ := f.svc.Generate(ctx, sess.ID)

	if _, err := f.svc.Activate(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Activate(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	list, err := f.svc.List(ctx, i.ID)
	if err != nil {
		t.Fatal(err)
	}
	active := 0
	for _, p := range list {
		if p.IsActive {
			active++
		}
	}
	if active != 1 || list[0].ID != b.ID {
		t.Errorf("active=%d first=%s, want only %s", active, list[0].ID, b.ID)
	}

	// concurrent activations still leave one active plan
	var wg sync.WaitGroup
	for _, id := range []string{a.ID, b.ID, c.ID, a.ID, c.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.svc.Activate(ctx, id); err != nil {
				t.Errorf("activate %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()
	var n int64
	f.db.Model(&entities.Plan{}).Where("idea_id = ? AND is_active = ?", i.ID, true).Count(&n)
	if n != 1 {
		t.Errorf("%d active plans after concurrent activation", n)
	}

	if _, err := f.svc.Activate(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing plan err = %v", err)
	}
}

// interleavedRepo runs afterLoad once, right after the service reads a plan.
type interleavedRepo struct {
	repository.PlanRepository
	afterLoad func()
}

func (r *interleavedRepo) FindByID(ctx context.Context, id string) (*entities.Plan, error) {
	p, err := r.PlanRepository.FindByID(ctx, id)
	if f := r.afterLoad; f != nil {
		r.afterLoad = nil
		f()
	}
	return p, err
}

func countActive(t *testing.T, db *gorm.DB, ideaID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&entities.Plan{}).Where("idea_id = ? AND is_active = ?", ideaID, true).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestEditDoesNotReactivateAfterSiblingActivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)
	a, _ := f.svc.Generate(ctx, sess.ID)
	b, _ := f.svc.Generate(ctx, sess.ID)
	if _, err := f.svc.Activate(ctx, a.ID); err != nil {
		t.Fatal(err)
	}

	base := repositoryImp.New(f.db)
	repo := &interleavedRepo{PlanRepository: base}
	svc := NewPlanService(repo, ideaRepoImp.New(f.db), sessionRepoImp.New(f.db), f.planner)
	repo.afterLoad = func() {
		if err := base.Activate(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	summary := "Ship a smaller kit first"
	got, err := svc.Update(ctx, a.ID, service.PlanPatch{Summary: &summary})
	if err != nil {
		t.Fatal(err)
	}
	if got.IsActive || got.Summary != summary {
		t.Errorf("edited plan = %+v", got)
	}
	if n := countActive(t, f.db, i.ID); n != 1 {
		t.Fatalf("%d active plans after edit, want 1", n)
	}
	if p, _ := f.svc.Get(ctx, b.ID); !p.IsActive {
		t.Error("sibling activation was undone")
	}

	// a stale deactivate only clears its own plan
	repo.afterLoad = func() {
		if err := base.Activate(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Deactivate(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if p, _ := f.svc.Get(ctx, a.ID); !p.IsActive || countActive(t, f.db, i.ID) != 1 {
		t.Error("deactivate touched the newly active sibling")
	}
}

func TestDeactivateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)
	a, _ := f.svc.Generate(ctx, sess.ID)
	b, _ := f.svc.Generate(ctx, sess.ID)
	f.svc.Activate(ctx, a.ID)

	p, err := f.svc.Deactivate(ctx, a.ID)
	if err != nil || p.IsActive {
		t.Fatalf("deactivate: %v %+v", err, p)
	}

	f.svc.Activate(ctx, a.ID)
	if err := f.svc.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	left, _ := f.svc.Get(ctx, b.ID)
	if left.IsActive {
		t.Error("deleting the active plan promoted another")
	}
	if err := f.svc.Delete(ctx, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)
	p, _ := f.svc.Generate(ctx, sess.ID)

	title := "Weekend version"
	got, err := f.svc.Update(ctx, p.ID, service.PlanPatch{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != entities.PlanGenerated || got.Title != title {
		t.Errorf("title-only edit = %+v", got)
	}

	steps := []entities.Step{{Title: "Ship"}, {Title: "Celebrate"}}
	got, err = f.svc.Update(ctx, p.ID, service.PlanPatch{Steps: &steps})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != entities.PlanEdited || got.Steps[0].Order != 1 || got.Steps[1].Order != 2 {
		t.Errorf("content edit = %+v", got)
	}
	if !strings.Contains(got.ContentMarkdown, "### 2. Celebrate") || got.Summary != "Build a sensor kit" {
		t.Errorf("markdown not refreshed: %q", got.ContentMarkdown)
	}

	published := entities.PlanPublished
	summary := "New summary"
	got, err = f.svc.Update(ctx, p.ID, service.PlanPatch{Summary: &summary, Status: &published})
	if err != nil || got.Status != entities.PlanPublished {
		t.Fatalf("explicit status: %v %+v", err, got)
	}

	bad := entities.PlanStatus("shipped")
	blank := " "
	noTitle := []entities.Step{{Title: ""}}
	for name, patch := range map[string]service.PlanPatch{
		"status":  {Status: &bad},
		"summary": {Summary: &blank},
		"steps":   {Steps: &noTitle},
	} {
		if _, err := f.svc.Update(ctx, p.ID, patch); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s err = %v", name, err)
		}
	}
}

func TestUploadFromText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaCaptured)

	p, err := f.svc.UploadFromText(ctx, i.ID, "## Summary\nDo X\n## Steps\n1. First - do thing\n2. Second - do other", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != entities.PlanDraft || p.Source != entities.SourceUpload || p.Summary != "Do X" || len(p.Steps) != 2 {
		t.Errorf("plan = %+v", p)
	}
	if got := f.status(t, i.ID); got != entities.IdeaPlanned {
		t.Errorf("idea status = %s", got)
	}

	if _, err := f.svc.UploadFromText(ctx, i.ID, "   ", "t"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty upload err = %v", err)
	}
	if _, err := f.svc.UploadFromText(ctx, "missing", "text", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing idea err = %v", err)
	}
	archived := f.idea(t, entities.IdeaArchived)
	if _, err := f.svc.UploadFromText(ctx, archived.ID, "text", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("archived idea err = %v", err)
	}
}

func TestExports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	i := f.idea(t, entities.IdeaRefining)
	sess := f.session(t, i.ID, true)
	p, _ := f.svc.Generate(ctx, sess.ID)

	name, text, err := f.svc.ExportMarkdown(ctx, p.ID)
	if err != nil || name != "Smart_Plant_Care_plan.md" || !strings.Contains(text, "### 1. Research") {
		t.Errorf("markdown: %v %q %q", err, name, text)
	}

	name, doc, err := f.svc.ExportJSON(ctx, p.ID)
	if err != nil || name != "Smart_Plant_Care_plan.json" {
		t.Fatalf("json: %v %q", err, name)
	}
	if doc.Version != export.DocumentVersion || doc.Idea.ID != i.ID || len(doc.Plan.Steps) != 2 {
		t.Errorf("doc = %+v", doc)
	}

	name, data, err := f.svc.ExportXLSX(ctx, p.ID)
	if err != nil || name != "Smart_Plant_Care_plan.xlsx" {
		t.Fatalf("xlsx: %v %q", err, name)
	}
	x, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()
	if got := x.GetSheetList(); len(got) != 3 {
		t.Errorf("sheets = %v", got)
	}

	if _, _, err := f.svc.ExportMarkdown(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing plan err = %v", err)
	}
}
