package serviceImp

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"brightideas/entities"
	"brightideas/pkg/apperr"
	repo "brightideas/pkg/idea/repository"
	"brightideas/pkg/idea/service"
	"brightideas/pkg/lifecycle"
)

type ideaSvc struct{ r repo.IdeaRepository }

func NewIdeaService(r repo.IdeaRepository) service.IdeaService { return &ideaSvc{r} }

func validTitle(t string) error {
	if t == "" {
		return apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(t) > entities.MaxTitleLen {
		return apperr.Validation("title must be at most %d characters", entities.MaxTitleLen)
	}
	return nil
}

func (s *ideaSvc) Create(ctx context.Context, in service.CreateInput) (*entities.Idea, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.OriginalDescription)
	if err := validTitle(title); err != nil {
		return nil, err
	}
	if desc == "" {
		return nil, apperr.Validation("original_description is required")
	}
	i := &entities.Idea{
		Title:               title,
		OriginalDescription: desc,
		Tags:                entities.NormalizeTags(in.Tags),
		Status:              entities.IdeaCaptured,
	}
	if err := s.r.Create(ctx, i); err != nil {
		return nil, apperr.Persistence("create idea", err)
	}
	log.Printf("[idea] created %s %q", i.ID, i.Title)
	return i, nil
}

func (s *ideaSvc) load(ctx context.Context, id string) (*entities.Idea, error) {
	i, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "idea")
	}
	return i, nil
}

func (s *ideaSvc) Get(ctx context.Context, id string) (*entities.IdeaDetail, error) {
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &entities.IdeaDetail{Idea: *i}
	if d.LatestSession, err = s.r.LatestSession(ctx, id); err != nil {
		return nil, apperr.Persistence("latest session", err)
	}
	if d.ActivePlan, err = s.r.ActivePlan(ctx, id); err != nil {
		return nil, apperr.Persistence("active plan", err)
	}
	d.HasActivePlan = d.ActivePlan != nil
	if d.SessionCount, err = s.r.CountSessions(ctx, id); err != nil {
		return nil, apperr.Persistence("count sessions", err)
	}
	if d.PlanCount, err = s.r.CountPlans(ctx, id); err != nil {
		return nil, apperr.Persistence("count plans", err)
	}
	return d, nil
}

// move checks the table and sets the new status; the caller persists it.
func move(i *entities.Idea, to entities.IdeaStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown status %q", to)
	}
	if !lifecycle.CanTransition(i.Status, to) {
		return apperr.Validation("cannot move idea from %s to %s", i.Status, to)
	}
	i.Status = to
	return nil
}

func (s *ideaSvc) Update(ctx context.Context, id string, p service.IdeaPatch) (*entities.Idea, error) {
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	var cols []string
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if err := validTitle(t); err != nil {
			return nil, err
		}
		i.Title = t
		cols = append(cols, "title")
	}
	if p.OriginalDescription != nil && strings.TrimSpace(*p.OriginalDescription) != i.OriginalDescription {
		return nil, apperr.Validation("original_description cannot be changed")
	}
	if p.Tags != nil {
		i.Tags = entities.NormalizeTags(*p.Tags)
		cols = append(cols, "tags")
	}
	if p.Status != nil {
		if err := s.setStatus(ctx, i, *p.Status); err != nil {
			return nil, err
		}
	}
	if len(cols) == 0 {
		return i, nil
	}
	if err := s.r.Update(ctx, i, cols...); err != nil {
		return nil, apperr.Persistence("update idea", err)
	}
	return i, nil
}

// setStatus validates the move against the table and writes it only if no
// other writer changed the status since i was loaded.
func (s *ideaSvc) setStatus(ctx context.Context, i *entities.Idea, to entities.IdeaStatus) error {
	from := i.Status
	if err := move(i, to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	ok, err := s.r.SetStatus(ctx, i.ID, from, to)
	if err != nil {
		return apperr.Persistence("update idea status", err)
	}
	if !ok {
		i.Status = from
		return apperr.Validation("idea %s is no longer %s; reload and retry", i.ID, from)
	}
	log.Printf("[idea] %s %s -> %s", i.ID, from, to)
	return nil
}

func (s *ideaSvc) Transition(ctx context.Context, id string, to entities.IdeaStatus) (*entities.Idea, error) {
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.setStatus(ctx, i, to); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *ideaSvc) fire(ctx context.Context, id string, ev lifecycle.Event) (*entities.Idea, error) {
	i, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := lifecycle.Next(i.Status, ev)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	return s.Transition(ctx, id, to)
}

func (s *ideaSvc) Archive(ctx context.Context, id string) (*entities.Idea, error) {
	return s.fire(ctx, id, lifecycle.Archive)
}

func (s *ideaSvc) Restore(ctx context.Context, id string) (*entities.Idea, error) {
	return s.fire(ctx, id, lifecycle.Restore)
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title COLLATE NOCASE",
	"status":     "status",
}

func (s *ideaSvc) List(ctx context.Context, f service.ListFilter) ([]entities.Idea, error) {
	q := repo.Query{
		Search:          f.Search,
		Tags:            entities.NormalizeTags(f.Tags),
		IncludeArchived: f.IncludeArchived,
		Skip:            f.Skip,
		Limit:           f.Limit,
		Desc:            true,
	}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, apperr.Validation("unknown status %q", f.Status)
		}
		q.Status = f.Status
	}
	sortKey := f.Sort
	if sortKey == "" {
		sortKey = "updated_at"
	}
	col, ok := sortColumns[sortKey]
	if !ok {
		return nil, apperr.Validation("cannot sort by %q", f.Sort)
	}
	q.SortColumn = col
	switch strings.ToLower(f.Order) {
	case "", "desc":
	case "asc":
		q.Desc = false
	default:
		return nil, apperr.Validation("order must be asc or desc")
	}
	if q.Skip < 0 {
		return nil, apperr.Validation("skip must not be negative")
	}
	switch {
	case q.Limit == 0:
		q.Limit = service.DefaultListLimit
	case q.Limit < 0 || q.Limit > service.MaxListLimit:
		return nil, apperr.Validation("limit must be between 1 and %d", service.MaxListLimit)
	}
	list, err := s.r.List(ctx, q)
	if err != nil {
		return nil, apperr.Persistence("list ideas", err)
	}
	return list, nil
}

func (s *ideaSvc) Recent(ctx context.Context, limit int) ([]entities.Idea, error) {
	switch {
	case limit == 0:
		limit = service.DefaultRecentLimit
	case limit < 0 || limit > service.MaxRecentLimit:
		return nil, apperr.Validation("limit must be between 1 and %d", service.MaxRecentLimit)
	}
	list, err := s.r.List(ctx, repo.Query{SortColumn: "updated_at", Desc: true, Limit: limit})
	if err != nil {
		return nil, apperr.Persistence("recent ideas", err)
	}
	return list, nil
}

func (s *ideaSvc) Delete(ctx context.Context, id string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		return apperr.FromDB(err, "idea")
	}
	log.Printf("[idea] deleted %s", id)
	return nil
}

func (s *ideaSvc) Stats(ctx context.Context) (*entities.IdeaStats, error) {
	byStatus, err := s.r.CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Persistence("count ideas", err)
	}
	st := &entities.IdeaStats{ByStatus: map[entities.IdeaStatus]int64{}}
	for _, status := range entities.IdeaStatuses {
		st.ByStatus[status] = byStatus[status]
		st.Total += byStatus[status]
	}
	if st.TotalSessions, st.TotalPlans, st.ActivePlans, err = s.r.Totals(ctx); err != nil {
		return nil, apperr.Persistence("count totals", err)
	}
	tagged, err := s.r.AllTags(ctx)
	if err != nil {
		return nil, apperr.Persistence("load tags", err)
	}
	st.Tags = entities.TopTags(tagged, service.TopTagCount)
	return st, nil
}
