package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/job-matcher/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db}
}

// FindByUserID returns nil without error when the user has no profile.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	var p model.UserProfile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
