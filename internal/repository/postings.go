package repository

import (
	"context"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"gorm.io/gorm"
)

const postingViewSelect = `p.id, p.owner_id, p.company_id, p.title, p.position, p.salary, p.requirement,
	p.description, p.apply_date, p.end_date, p.image, p.created_at,
	u.name AS employer_name, c.name AS company_name`

type PostingRepository struct {
	db *gorm.DB
}

func NewPostingRepository(db *gorm.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

func (r *PostingRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("postings AS p").
		Select(postingViewSelect).
		Joins("JOIN users u ON u.id = p.owner_id").
		Joins("JOIN companies c ON c.id = p.company_id")
}

func (r *PostingRepository) Create(ctx context.Context, posting *models.Posting) error {
	err := r.db.WithContext(ctx).Create(posting).Error
	return translate(err, "posting not found", "posting already exists", "failed to create posting")
}

func (r *PostingRepository) GetByID(ctx context.Context, id uint) (*models.Posting, error) {
	var posting models.Posting
	if err := r.db.WithContext(ctx).First(&posting, id).Error; err != nil {
		return nil, translate(err, "posting not found", "", "failed to load posting")
	}
	return &posting, nil
}

func (r *PostingRepository) GetView(ctx context.Context, id uint) (*models.PostingView, error) {
	var view models.PostingView
	res := r.views(ctx).Where("p.id = ?", id).Limit(1).Scan(&view)
	if res.Error != nil {
		return nil, apperr.Internal("failed to load posting", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("posting not found")
	}
	return &view, nil
}

func (r *PostingRepository) ListViews(ctx context.Context) ([]models.PostingView, error) {
	var views []models.PostingView
	if err := r.views(ctx).Order("p.created_at DESC").Scan(&views).Error; err != nil {
		return nil, apperr.Internal("failed to list postings", err)
	}
	return views, nil
}

func (r *PostingRepository) ListViewsByOwner(ctx context.Context, ownerID uint) ([]models.PostingView, error) {
	var views []models.PostingView
	if err := r.views(ctx).Where("p.owner_id = ?", ownerID).Order("p.created_at DESC").Scan(&views).Error; err != nil {
		return nil, apperr.Internal("failed to list postings", err)
	}
	return views, nil
}

func (r *PostingRepository) Update(ctx context.Context, posting *models.Posting) error {
	err := r.db.WithContext(ctx).Save(posting).Error
	return translate(err, "posting not found", "", "failed to update posting")
}

func (r *PostingRepository) DeleteCascade(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePostings(tx, ids)
	})
	if err != nil {
		return apperr.Internal("failed to delete postings", err)
	}
	return nil
}

func (r *PostingRepository) EndingBetween(ctx context.Context, from, to time.Time) ([]models.Posting, error) {
	var postings []models.Posting
	err := r.db.WithContext(ctx).
		Where("end_date >= ? AND end_date < ?", from, to).
		Order("id").
		Find(&postings).Error
	if err != nil {
		return nil, apperr.Internal("failed to select ending postings", err)
	}
	return postings, nil
}

func (r *PostingRepository) EndedBefore(ctx context.Context, t time.Time) ([]models.Posting, error) {
	var postings []models.Posting
	if err := r.db.WithContext(ctx).Where("end_date < ?", t).Order("id").Find(&postings).Error; err != nil {
		return nil, apperr.Internal("failed to select expired postings", err)
	}
	return postings, nil
}
