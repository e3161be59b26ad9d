package serviceImp

import (
	"context"
	"log"
	"strings"
	"time"

	"brightideas/entities"
	"brightideas/pkg/ai"
	"brightideas/pkg/apperr"
	ideaRepo "brightideas/pkg/idea/repository"
	"brightideas/pkg/lifecycle"
	repo "brightideas/pkg/refinement/repository"
	"brightideas/pkg/refinement/service"
)

type Questioner interface {
	GenerateQuestions(ctx context.Context, ic ai.IdeaContext) ai.Result[[]entities.Question]
}

type refinementSvc struct {
	r     repo.RefinementRepository
	ideas ideaRepo.IdeaRepository
	ai    Questioner
	now   func() time.Time
}

func NewRefinementService(r repo.RefinementRepository, ideas ideaRepo.IdeaRepository, q Questioner) service.RefinementService {
	return &refinementSvc{r: r, ideas: ideas, ai: q, now: time.Now}
}

func (s *refinementSvc) idea(ctx context.Context, id string) (*entities.Idea, error) {
	i, err := s.ideas.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "idea")
	}
	return i, nil
}

func (s *refinementSvc) session(ctx context.Context, id string) (*entities.RefinementSession, error) {
	sess, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "refinement session")
	}
	return sess, nil
}

// ideaContext describes the idea to the model, including the last completed
// round and the active plan when the idea is being refined again.
func (s *refinementSvc) ideaContext(ctx context.Context, i *entities.Idea) (ai.IdeaContext, error) {
	ic := ai.IdeaContext{Title: i.Title, Description: i.OriginalDescription, Tags: i.Tags}
	prev, err := s.r.LatestCompleted(ctx, i.ID)
	if err != nil {
		return ic, apperr.Persistence("latest completed session", err)
	}
	if prev != nil {
		ic.PreviousAnswers = prev.Pairs()
	}
	plan, err := s.ideas.ActivePlan(ctx, i.ID)
	if err != nil {
		return ic, apperr.Persistence("active plan", err)
	}
	if plan != nil {
		ic.ActivePlanSummary = plan.Summary
	}
	return ic, nil
}

func (s *refinementSvc) StartOrResume(ctx context.Context, ideaID string) (*entities.RefinementSession, error) {
	i, err := s.idea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	next, err := lifecycle.Next(i.Status, lifecycle.StartRefinement)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	sess, err := s.r.OpenSession(ctx, ideaID)
	if err != nil {
		return nil, apperr.Persistence("find open session", err)
	}
	if sess == nil {
		ic, err := s.ideaContext(ctx, i)
		if err != nil {
			return nil, err
		}
		res := s.ai.GenerateQuestions(ctx, ic)
		if res.Fallback {
			log.Printf("[refine] idea %s: using fallback questions: %v", i.ID, res.Err)
		}
		sess = &entities.RefinementSession{IdeaID: i.ID, Questions: res.Value, Answers: map[string]string{}}
	} else if next == i.Status {
		return sess, nil
	}

	from := i.Status
	i.Status = next
	if sess, err = s.r.Start(ctx, sess, i); err != nil {
		return nil, apperr.Persistence("start refinement", err)
	}
	if from != next {
		log.Printf("[idea] %s %s -> %s", i.ID, from, next)
	}
	log.Printf("[refine] session %s for idea %s (%d questions)", sess.ID, i.ID, len(sess.Questions))
	return sess, nil
}

func (s *refinementSvc) Get(ctx context.Context, sessionID string) (*entities.RefinementSession, error) {
	return s.session(ctx, sessionID)
}

func (s *refinementSvc) SubmitAnswers(ctx context.Context, sessionID string, answers map[string]string) (*entities.RefinementSession, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.MergeAnswers(answers); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	sess.Recompute(s.now())
	if err := s.r.Save(ctx, sess); err != nil {
		return nil, apperr.Persistence("save answers", err)
	}
	return sess, nil
}

func (s *refinementSvc) Complete(ctx context.Context, sessionID string) (*entities.RefinementSession, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(sess.Questions) == 0 {
		return nil, apperr.Validation("session has no questions")
	}
	if missing := sess.Unanswered(); len(missing) > 0 {
		return nil, apperr.Validation("unanswered questions: %s", strings.Join(missing, ", "))
	}
	if sess.IsComplete {
		return sess, nil
	}
	sess.Recompute(s.now())
	if err := s.r.Save(ctx, sess); err != nil {
		return nil, apperr.Persistence("complete session", err)
	}
	return sess, nil
}

func (s *refinementSvc) ListSessions(ctx context.Context, ideaID string) ([]entities.RefinementSession, error) {
	if _, err := s.idea(ctx, ideaID); err != nil {
		return nil, err
	}
	list, err := s.r.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, apperr.Persistence("list sessions", err)
	}
	return list, nil
}

func (s *refinementSvc) PreviewQuestions(ctx context.Context, ideaID string) (*service.QuestionPreview, error) {
	i, err := s.idea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	ic, err := s.ideaContext(ctx, i)
	if err != nil {
		return nil, err
	}
	res := s.ai.GenerateQuestions(ctx, ic)
	return &service.QuestionPreview{IdeaID: i.ID, Questions: res.Value, Fallback: res.Fallback}, nil
}
