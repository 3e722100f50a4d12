package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/job-matcher/internal/model"
	"gorm.io/gorm"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db}
}

// Latest returns the most recent preferences for a user, or nil when none exist.
func (r *PreferenceRepository) Latest(ctx context.Context, userID string) (*model.JobPreference, error) {
	var p model.JobPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Replace drops the user's existing preferences and stores p in their place.
func (r *PreferenceRepository) Replace(ctx context.Context, p *model.JobPreference) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", p.UserID).Delete(&model.JobPreference{}).Error; err != nil {
			return err
		}
		return tx.Create(p).Error
	})
}
