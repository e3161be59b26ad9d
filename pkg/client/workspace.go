package client

import (
	"context"

	"brightideas/entities"
)

// Workspace keeps the client's view of ideas and plans in observable stores.
// Every mutating call refreshes the stores it affects.
type Workspace struct {
	api *Client

	Ideas   *Store[[]entities.Idea]
	Current *Store[*entities.IdeaDetail]
	Plans   *Store[[]entities.Plan]

	ActiveCount View[int]
	TagCloud    View[[]entities.TagCount]

	filter ListOptions
}

func NewWorkspace(api *Client) *Workspace {
	w := &Workspace{
		api:     api,
		Ideas:   NewStore[[]entities.Idea](nil),
		Current: NewStore[*entities.IdeaDetail](nil),
		Plans:   NewStore[[]entities.Plan](nil),
	}
	w.ActiveCount = Derive[[]entities.Idea, int](w.Ideas, func(ideas []entities.Idea) int {
		n := 0
		for _, i := range ideas {
			if i.Status != entities.IdeaArchived {
				n++
			}
		}
		return n
	})
	w.TagCloud = Derive[[]entities.Idea, []entities.TagCount](w.Ideas, func(ideas []entities.Idea) []entities.TagCount {
		return entities.TopTags(ideas, 0)
	})
	return w
}

// LoadIdeas fetches ideas with o and remembers o for later refreshes.
func (w *Workspace) LoadIdeas(ctx context.Context, o ListOptions) error {
	w.filter = o
	return w.refreshIdeas(ctx)
}

func (w *Workspace) refreshIdeas(ctx context.Context) error {
	ideas, err := w.api.ListIdeas(ctx, w.filter)
	if err != nil {
		return err
	}
	w.Ideas.Set(ideas)
	return nil
}

// Open loads an idea's detail and its plans.
func (w *Workspace) Open(ctx context.Context, id string) error {
	d, err := w.api.GetIdea(ctx, id)
	if err != nil {
		return err
	}
	plans, err := w.api.ListPlans(ctx, id)
	if err != nil {
		return err
	}
	w.Current.Set(d)
	w.Plans.Set(plans)
	return nil
}

// refresh reloads the list and, when id is the open idea, its detail.
func (w *Workspace) refresh(ctx context.Context, id string) error {
	if err := w.refreshIdeas(ctx); err != nil {
		return err
	}
	if cur := w.Current.Get(); cur != nil && cur.ID == id {
		return w.Open(ctx, id)
	}
	return nil
}

func (w *Workspace) AddIdea(ctx context.Context, in NewIdea) (*entities.Idea, error) {
	idea, err := w.api.CreateIdea(ctx, in)
	if err != nil {
		return nil, err
	}
	return idea, w.refreshIdeas(ctx)
}

func (w *Workspace) Archive(ctx context.Context, id string) error {
	if _, err := w.api.ArchiveIdea(ctx, id); err != nil {
		return err
	}
	return w.refresh(ctx, id)
}

func (w *Workspace) Restore(ctx context.Context, id string) error {
	if _, err := w.api.RestoreIdea(ctx, id); err != nil {
		return err
	}
	return w.refresh(ctx, id)
}

func (w *Workspace) DeleteIdea(ctx context.Context, id string) error {
	if err := w.api.DeleteIdea(ctx, id); err != nil {
		return err
	}
	if cur := w.Current.Get(); cur != nil && cur.ID == id {
		w.Current.Set(nil)
		w.Plans.Set(nil)
	}
	return w.refreshIdeas(ctx)
}

func (w *Workspace) GeneratePlan(ctx context.Context, sessionID string) (*entities.Plan, error) {
	p, err := w.api.GeneratePlan(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return p, w.refresh(ctx, p.IdeaID)
}

func (w *Workspace) UploadPlan(ctx context.Context, ideaID, content, title string) (*entities.Plan, error) {
	p, err := w.api.UploadPlan(ctx, ideaID, content, title)
	if err != nil {
		return nil, err
	}
	return p, w.refresh(ctx, ideaID)
}

func (w *Workspace) ActivatePlan(ctx context.Context, id string) (*entities.Plan, error) {
	p, err := w.api.ActivatePlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, w.refresh(ctx, p.IdeaID)
}

// DeletePlan removes a plan from the open idea.
func (w *Workspace) DeletePlan(ctx context.Context, id string) error {
	if err := w.api.DeletePlan(ctx, id); err != nil {
		return err
	}
	if cur := w.Current.Get(); cur != nil {
		return w.Open(ctx, cur.ID)
	}
	return nil
}
