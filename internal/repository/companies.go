package repository

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	err := r.db.WithContext(ctx).Create(company).Error
	return translate(err, "company not found", "you already have a company", "failed to create company")
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err, "company not found", "", "failed to load company")
	}
	return &company, nil
}

func (r *CompanyRepository) GetByOwner(ctx context.Context, ownerID uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&company).Error; err != nil {
		return nil, translate(err, "company not found", "", "failed to load company")
	}
	return &company, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	err := r.db.WithContext(ctx).Save(company).Error
	return translate(err, "company not found", "you already have a company", "failed to update company")
}

func (r *CompanyRepository) Approve(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&company, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&company).Update("status", models.CompanyApproved).Error; err != nil {
			return err
		}
		// admins keep their role
		return tx.Model(&models.User{}).
			Where("id = ? AND role <> ?", company.OwnerID, models.RoleAdmin).
			Update("role", models.RoleEmployer).Error
	})
	if err != nil {
		return nil, translate(err, "company not found", "", "failed to approve company")
	}
	return &company, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.Select("id").First(&company, id).Error; err != nil {
			return err
		}
		return deleteCompany(tx, id)
	})
	return translate(err, "company not found", "", "failed to delete company")
}

func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	return companies, nil
}

func (r *CompanyRepository) ListByStatus(ctx context.Context, status string) ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	return companies, nil
}
