package serviceImp

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"brightideas/entities"
	"brightideas/pkg/ai"
	"brightideas/pkg/apperr"
	"brightideas/pkg/export"
	ideaRepo "brightideas/pkg/idea/repository"
	"brightideas/pkg/lifecycle"
	planRepo "brightideas/pkg/plan/repository"
	"brightideas/pkg/plan/service"
	"brightideas/pkg/planparser"
	sessionRepo "brightideas/pkg/refinement/repository"
)

type Planner interface {
	GeneratePlan(ctx context.Context, ic ai.IdeaContext, qa []entities.QA) ai.Result[entities.PlanContent]
}

type PlanSvc struct {
	plans    planRepo.PlanRepository
	ideas    ideaRepo.IdeaRepository
	sessions sessionRepo.RefinementRepository
	llm      Planner
	now      func() time.Time
}

func NewPlanService(pr planRepo.PlanRepository, ir ideaRepo.IdeaRepository, sr sessionRepo.RefinementRepository, llm Planner) service.PlanService {
	return &PlanSvc{plans: pr, ideas: ir, sessions: sr, llm: llm, now: time.Now}
}

func (s *PlanSvc) idea(ctx context.Context, id string) (*entities.Idea, error) {
	i, err := s.ideas.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "idea")
	}
	return i, nil
}

func (s *PlanSvc) plan(ctx context.Context, id string) (*entities.Plan, error) {
	p, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "plan")
	}
	return p, nil
}

// advance resolves the idea status after a new plan; archived ideas refuse.
func advance(i *entities.Idea) (entities.IdeaStatus, error) {
	next, err := lifecycle.Next(i.Status, lifecycle.PlanCreated)
	if err != nil {
		return i.Status, apperr.Validation("%v", err)
	}
	return next, nil
}

func (s *PlanSvc) create(ctx context.Context, p *entities.Plan, i *entities.Idea, next entities.IdeaStatus) error {
	from := i.Status
	i.Status = next
	if err := s.plans.Create(ctx, p, i); err != nil {
		i.Status = from
		return apperr.Persistence("create plan", err)
	}
	if from != next {
		log.Printf("[idea] %s %s -> %s", i.ID, from, next)
	}
	log.Printf("[plan] created %s for idea %s (source=%s, %d steps)", p.ID, i.ID, p.Source, len(p.Steps))
	return nil
}

func (s *PlanSvc) Generate(ctx context.Context, sessionID string) (*entities.Plan, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperr.FromDB(err, "refinement session")
	}
	if !sess.IsComplete {
		return nil, apperr.Validation("refinement session must be completed before generating a plan")
	}
	i, err := s.idea(ctx, sess.IdeaID)
	if err != nil {
		return nil, err
	}
	next, err := advance(i)
	if err != nil {
		return nil, err
	}

	ic := ai.IdeaContext{Title: i.Title, Description: i.OriginalDescription, Tags: i.Tags}
	res := s.llm.GeneratePlan(ctx, ic, sess.Pairs())
	source := entities.SourceAI
	if res.Fallback {
		source = entities.SourceFallback
		log.Printf("[plan] idea %s: using fallback plan: %v", i.ID, res.Err)
	}

	p := &entities.Plan{
		IdeaID:              i.ID,
		RefinementSessionID: &sess.ID,
		Title:               i.Title,
		Status:              entities.PlanGenerated,
		Source:              source,
	}
	p.SetContent(res.Value)
	p.ContentMarkdown = export.Markdown(i.Title, p.Content())
	if err := s.create(ctx, p, i, next); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlanSvc) Get(ctx context.Context, id string) (*entities.Plan, error) {
	return s.plan(ctx, id)
}

func (s *PlanSvc) List(ctx context.Context, ideaID string) ([]entities.Plan, error) {
	if _, err := s.idea(ctx, ideaID); err != nil {
		return nil, err
	}
	ps, err := s.plans.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, apperr.Persistence("list plans", err)
	}
	entities.SortPlans(ps)
	return ps, nil
}

func (s *PlanSvc) Activate(ctx context.Context, id string) (*entities.Plan, error) {
	p, err := s.plan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Activate(ctx, p); err != nil {
		return nil, apperr.Persistence("activate plan", err)
	}
	log.Printf("[plan] activated %s for idea %s", p.ID, p.IdeaID)
	return p, nil
}

func (s *PlanSvc) Deactivate(ctx context.Context, id string) (*entities.Plan, error) {
	p, err := s.plan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return p, nil
	}
	if err := s.plans.Deactivate(ctx, p.ID); err != nil {
		return nil, apperr.Persistence("deactivate plan", err)
	}
	p.IsActive = false
	return p, nil
}

func validSteps(steps []entities.Step) error {
	for n, st := range steps {
		if strings.TrimSpace(st.Title) == "" {
			return apperr.Validation("step %d needs a title", n+1)
		}
	}
	return nil
}

func (s *PlanSvc) Update(ctx context.Context, id string, patch service.PlanPatch) (*entities.Plan, error) {
	p, err := s.plan(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperr.Validation("unknown plan status %q", *patch.Status)
	}
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}

	c := p.Content()
	changed := false
	if patch.Summary != nil {
		sum := strings.TrimSpace(*patch.Summary)
		if sum == "" {
			return nil, apperr.Validation("summary must not be empty")
		}
		c.Summary, changed = sum, true
	}
	if patch.Steps != nil {
		if err := validSteps(*patch.Steps); err != nil {
			return nil, err
		}
		c.Steps, changed = *patch.Steps, true
	}
	if patch.Resources != nil {
		c.Resources, changed = *patch.Resources, true
	}

	switch {
	case patch.Status != nil:
		p.Status = *patch.Status
	case changed && p.Status == entities.PlanGenerated:
		p.Status = entities.PlanEdited
	}
	if changed {
		i, err := s.idea(ctx, p.IdeaID)
		if err != nil {
			return nil, err
		}
		p.SetContent(c)
		p.ContentMarkdown = export.Markdown(i.Title, p.Content())
	}
	if err := s.plans.UpdateContent(ctx, p); err != nil {
		return nil, apperr.Persistence("update plan", err)
	}
	// is_active may have moved since p was read
	return s.plan(ctx, p.ID)
}

func (s *PlanSvc) Delete(ctx context.Context, id string) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return apperr.FromDB(err, "plan")
	}
	log.Printf("[plan] deleted %s", id)
	return nil
}

func (s *PlanSvc) UploadFromText(ctx context.Context, ideaID, raw, title string) (*entities.Plan, error) {
	i, err := s.idea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	next, err := advance(i)
	if err != nil {
		return nil, err
	}
	d, err := planparser.Parse(raw)
	if errors.Is(err, planparser.ErrEmpty) {
		return nil, apperr.Validation("plan content is required")
	}
	if err != nil {
		return nil, apperr.Validation("unreadable plan: %v", err)
	}
	if err := validSteps(d.Content.Steps); err != nil {
		return nil, err
	}

	p := &entities.Plan{IdeaID: i.ID, Status: entities.PlanDraft, Source: entities.SourceUpload}
	p.Title = strings.TrimSpace(title)
	if p.Title == "" {
		p.Title = d.Title
	}
	p.SetContent(d.Content)
	p.ContentMarkdown = export.Markdown(i.Title, p.Content())
	if err := s.create(ctx, p, i, next); err != nil {
		return nil, err
	}
	log.Printf("[plan] upload parsed as %s", d.Format)
	return p, nil
}

func (s *PlanSvc) withIdea(ctx context.Context, id string) (*entities.Plan, *entities.Idea, error) {
	p, err := s.plan(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	i, err := s.idea(ctx, p.IdeaID)
	if err != nil {
		return nil, nil, err
	}
	return p, i, nil
}

func (s *PlanSvc) ExportMarkdown(ctx context.Context, id string) (string, string, error) {
	p, i, err := s.withIdea(ctx, id)
	if err != nil {
		return "", "", err
	}
	text := p.ContentMarkdown
	if text == "" {
		text = export.Markdown(i.Title, p.Content())
	}
	return export.Filename(i.Title, "md"), text, nil
}

func (s *PlanSvc) ExportJSON(ctx context.Context, id string) (string, export.Document, error) {
	p, i, err := s.withIdea(ctx, id)
	if err != nil {
		return "", export.Document{}, err
	}
	return export.Filename(i.Title, "json"), export.NewDocument(i, p, s.now()), nil
}

func (s *PlanSvc) ExportXLSX(ctx context.Context, id string) (string, []byte, error) {
	p, i, err := s.withIdea(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := export.XLSX(i, p)
	if err != nil {
		return "", nil, apperr.Persistence("render xlsx", err)
	}
	return export.Filename(i.Title, "xlsx"), data, nil
}
