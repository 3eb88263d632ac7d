package repository

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"gorm.io/gorm"
)

const applicationViewSelect = `a.id, a.posting_id, a.applicant_id, a.name, a.email, a.resume, a.status,
	a.schedule_time, a.meeting_link, p.title, p.image AS posting_image, c.name AS company_name`

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("applications AS a").
		Select(applicationViewSelect).
		Joins("JOIN postings p ON p.id = a.posting_id").
		Joins("JOIN companies c ON c.id = p.company_id")
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	err := r.db.WithContext(ctx).Create(app).Error
	return translate(err, "application not found", "you have already applied for this job", "failed to create application")
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, translate(err, "application not found", "", "failed to load application")
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByPair(ctx context.Context, postingID, applicantID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("posting_id = ? AND applicant_id = ?", postingID, applicantID).
		First(&app).Error
	if err != nil {
		return nil, translate(err, "application not found", "", "failed to load application")
	}
	return &app, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	err := r.db.WithContext(ctx).Save(app).Error
	return translate(err, "application not found", "", "failed to update application")
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Application{}, id)
	if res.Error != nil {
		return apperr.Internal("failed to delete application", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("application not found")
	}
	return nil
}

func (r *ApplicationRepository) ListForApplicant(ctx context.Context, applicantID uint, postingID *uint) ([]models.ApplicationView, error) {
	q := r.views(ctx).Where("a.applicant_id = ?", applicantID)
	if postingID != nil {
		q = q.Where("a.posting_id = ?", *postingID)
	}
	var views []models.ApplicationView
	if err := q.Order("a.created_at DESC").Scan(&views).Error; err != nil {
		return nil, apperr.Internal("failed to list applications", err)
	}
	return views, nil
}

func (r *ApplicationRepository) ListForOwner(ctx context.Context, ownerID uint) ([]models.ApplicationView, error) {
	var views []models.ApplicationView
	err := r.views(ctx).
		Where("p.owner_id = ?", ownerID).
		Order("a.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, apperr.Internal("failed to list applications", err)
	}
	return views, nil
}
