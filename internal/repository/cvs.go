package repository

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"gorm.io/gorm"
)

type CVRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) *CVRepository {
	return &CVRepository{db: db}
}

func (r *CVRepository) Create(ctx context.Context, cv *models.CV) error {
	err := r.db.WithContext(ctx).Create(cv).Error
	return translate(err, "CV not found", "CV already exists", "failed to create CV")
}

func (r *CVRepository) GetByUser(ctx context.Context, userID uint) (*models.CV, error) {
	var cv models.CV
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cv).Error; err != nil {
		return nil, translate(err, "CV not found", "", "failed to load CV")
	}
	return &cv, nil
}

func (r *CVRepository) Update(ctx context.Context, cv *models.CV) error {
	err := r.db.WithContext(ctx).Save(cv).Error
	return translate(err, "CV not found", "", "failed to update CV")
}

func (r *CVRepository) DeleteByUser(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CV{})
	if res.Error != nil {
		return apperr.Internal("failed to delete CV", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("CV not found")
	}
	return nil
}
