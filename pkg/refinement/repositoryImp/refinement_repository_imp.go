package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"brightideas/entities"
	"brightideas/pkg/refinement/repository"
)

type sessionRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.RefinementRepository { return &sessionRepo{db} }

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*entities.RefinementSession, error) {
	var s entities.RefinementSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Save(ctx context.Context, s *entities.RefinementSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) Start(ctx context.Context, s *entities.RefinementSession, idea *entities.Idea) (*entities.RefinementSession, error) {
	kept := s
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.ID == "" {
			open, err := newest(tx, idea.ID, false)
			if err != nil {
				return err
			}
			if open != nil {
				kept = open
			} else if err := tx.Create(s).Error; err != nil {
				return err
			}
		}
		return tx.Model(idea).Update("status", idea.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return kept, nil
}

func newest(db *gorm.DB, ideaID string, complete bool) (*entities.RefinementSession, error) {
	var out []entities.RefinementSession
	err := db.
		Where("idea_id = ? AND is_complete = ?", ideaID, complete).
		Order("created_at DESC").Order("id DESC").Limit(1).Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *sessionRepo) OpenSession(ctx context.Context, ideaID string) (*entities.RefinementSession, error) {
	return newest(r.db.WithContext(ctx), ideaID, false)
}

func (r *sessionRepo) LatestCompleted(ctx context.Context, ideaID string) (*entities.RefinementSession, error) {
	return newest(r.db.WithContext(ctx), ideaID, true)
}

func (r *sessionRepo) ListByIdea(ctx context.Context, ideaID string) ([]entities.RefinementSession, error) {
	out := []entities.RefinementSession{}
	return out, r.db.WithContext(ctx).Where("idea_id = ?", ideaID).
		Order("created_at DESC").Order("id DESC").Find(&out).Error
}
