package repositoryImp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"brightideas/entities"
	"brightideas/pkg/idea/repository"
)

type ideaRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.IdeaRepository { return &ideaRepo{db} }

func (r *ideaRepo) Create(ctx context.Context, i *entities.Idea) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ideaRepo) FindByID(ctx context.Context, id string) (*entities.Idea, error) {
	var i entities.Idea
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ideaRepo) Update(ctx context.Context, i *entities.Idea, cols ...string) error {
	i.UpdatedAt = time.Now()
	cols = append(cols, "updated_at")
	return r.db.WithContext(ctx).Model(i).Select(cols).Updates(i).Error
}

func (r *ideaRepo) SetStatus(ctx context.Context, id string, from, to entities.IdeaStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.Idea{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	return res.RowsAffected == 1, res.Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func contains(s string) string { return "%" + likeEscaper.Replace(s) + "%" }

func (r *ideaRepo) List(ctx context.Context, q repository.Query) ([]entities.Idea, error) {
	tx := r.db.WithContext(ctx).Model(&entities.Idea{})
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		p := contains(s)
		tx = tx.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(original_description) LIKE ? ESCAPE '\'`+
			` OR EXISTS (SELECT 1 FROM json_each(ideas.tags) WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')`, p, p, p)
	}
	// tags are stored as a JSON array, so match each one with its quotes
	for _, t := range q.Tags {
		needle, _ := json.Marshal(t)
		tx = tx.Where(`tags LIKE ? ESCAPE '\'`, contains(string(needle)))
	}
	switch {
	case q.Status != "":
		tx = tx.Where("status = ?", q.Status)
	case !q.IncludeArchived:
		tx = tx.Where("status <> ?", entities.IdeaArchived)
	}
	dir := " ASC"
	if q.Desc {
		dir = " DESC"
	}
	col := q.SortColumn
	if col == "" {
		col = "updated_at"
	}
	tx = tx.Order(col + dir).Order("id" + dir)
	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	list := []entities.Idea{}
	return list, tx.Find(&list).Error
}

func (r *ideaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", id).Delete(&entities.Plan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("idea_id = ?", id).Delete(&entities.RefinementSession{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Idea{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// LatestSession returns nil without error when the idea has no sessions.
func (r *ideaRepo) LatestSession(ctx context.Context, ideaID string) (*entities.RefinementSession, error) {
	var out []entities.RefinementSession
	err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).
		Order("created_at DESC").Order("id DESC").Limit(1).Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

// ActivePlan returns nil without error when no plan is active.
func (r *ideaRepo) ActivePlan(ctx context.Context, ideaID string) (*entities.Plan, error) {
	var out []entities.Plan
	err := r.db.WithContext(ctx).Where("idea_id = ? AND is_active = ?", ideaID, true).Limit(1).Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *ideaRepo) CountSessions(ctx context.Context, ideaID string) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&entities.RefinementSession{}).Where("idea_id = ?", ideaID).Count(&n).Error
}

func (r *ideaRepo) CountPlans(ctx context.Context, ideaID string) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&entities.Plan{}).Where("idea_id = ?", ideaID).Count(&n).Error
}

func (r *ideaRepo) CountByStatus(ctx context.Context) (map[entities.IdeaStatus]int64, error) {
	var rows []struct {
		Status entities.IdeaStatus
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&entities.Idea{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[entities.IdeaStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *ideaRepo) Totals(ctx context.Context) (sessions, plans, activePlans int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&entities.RefinementSession{}).Count(&sessions).Error; err != nil {
		return
	}
	if err = db.Model(&entities.Plan{}).Count(&plans).Error; err != nil {
		return
	}
	err = db.Model(&entities.Plan{}).Where("is_active = ?", true).Count(&activePlans).Error
	return
}

func (r *ideaRepo) AllTags(ctx context.Context) ([]entities.Idea, error) {
	var out []entities.Idea
	return out, r.db.WithContext(ctx).Select("id", "tags").Find(&out).Error
}
