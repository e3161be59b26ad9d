package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"brightideas/entities"
	"brightideas/pkg/plan/repository"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlanRepository { return &planRepo{db} }

func (r *planRepo) Create(ctx context.Context, p *entities.Plan, idea *entities.Idea) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Model(idea).Update("status", idea.Status).Error
	})
}

func (r *planRepo) FindByID(ctx context.Context, id string) (*entities.Plan, error) {
	var p entities.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

var contentColumns = []string{"title", "summary", "steps", "resources", "status", "content_markdown", "updated_at"}

func (r *planRepo) UpdateContent(ctx context.Context, p *entities.Plan) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(p).Select(contentColumns).Updates(p).Error
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Plan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *planRepo) ListByIdea(ctx context.Context, ideaID string) ([]entities.Plan, error) {
	ps := []entities.Plan{}
	err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).
		Order("is_active DESC").Order("created_at DESC").Find(&ps).Error
	return ps, err
}

func (r *planRepo) Activate(ctx context.Context, p *entities.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Plan{}).
			Where("idea_id = ? AND id <> ? AND is_active = ?", p.IdeaID, p.ID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		p.IsActive = true
		return tx.Model(p).Update("is_active", true).Error
	})
}

func (r *planRepo) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&entities.Plan{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false).Error
}
