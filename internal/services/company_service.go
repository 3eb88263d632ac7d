package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type CompanyInput struct {
	Name    string
	Address string
	TaxID   string
	Logo    string
}

type CompanyService struct {
	companies CompanyRepository
	users     UserRepository
	notices   *NotificationService
	log       *slog.Logger
}

func NewCompanyService(companies CompanyRepository, users UserRepository, notices *NotificationService, log *slog.Logger) *CompanyService {
	return &CompanyService{companies: companies, users: users, notices: notices, log: log}
}

// Create files a company request for admin review. Each user may own one company.
func (s *CompanyService) Create(ctx context.Context, ownerID uint, in CompanyInput) (*models.Company, error) {
	in = trimCompany(in)
	if err := requireFields(map[string]string{"company_name": in.Name, "address": in.Address, "pan_no": in.TaxID}); err != nil {
		return nil, err
	}
	if _, err := s.companies.GetByOwner(ctx, ownerID); err == nil {
		return nil, apperr.Conflict("you already have a company")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	company := &models.Company{
		OwnerID: ownerID,
		Name:    in.Name,
		Address: in.Address,
		TaxID:   in.TaxID,
		Logo:    in.Logo,
		Status:  models.CompanyPending,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Approve applies an admin verdict. Approval promotes the owner to employer;
// rejection deletes the request. The owner is told either way.
func (s *CompanyService) Approve(ctx context.Context, companyID uint, verdict string) (*models.Company, error) {
	if verdict != models.CompanyApproved && verdict != models.CompanyRejected {
		return nil, apperr.Validation("status must be approved or rejected")
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var msg string
	if verdict == models.CompanyApproved {
		if company, err = s.companies.Approve(ctx, companyID); err != nil {
			return nil, err
		}
		msg = fmt.Sprintf("Your company %q has been approved. You can now post jobs.", company.Name)
	} else {
		if err := s.companies.Delete(ctx, companyID); err != nil {
			return nil, err
		}
		company.Status = models.CompanyRejected
		msg = fmt.Sprintf("Your company %q has been rejected.", company.Name)
	}
	s.log.Info("company reviewed", slog.Uint64("company_id", uint64(companyID)), slog.String("status", verdict))

	owner, err := s.users.GetByID(ctx, company.OwnerID)
	if err != nil {
		s.log.Warn("company owner not found for notice", slog.Uint64("company_id", uint64(companyID)))
		return company, nil
	}
	s.notices.NotifyAndEmail(ctx, owner, msg, "Company request "+verdict, msg)
	return company, nil
}

// Mine returns every company for admins and the caller's own company otherwise.
func (s *CompanyService) Mine(ctx context.Context, actor Actor) ([]models.Company, error) {
	if actor.IsAdmin() {
		return s.companies.List(ctx)
	}
	company, err := s.companies.GetByOwner(ctx, actor.ID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []models.Company{*company}, nil
}

// Edit updates the caller's company. Empty fields keep their value.
func (s *CompanyService) Edit(ctx context.Context, ownerID uint, in CompanyInput) (*models.Company, error) {
	company, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	in = trimCompany(in)
	setIfPresent(&company.Name, in.Name)
	setIfPresent(&company.Address, in.Address)
	setIfPresent(&company.TaxID, in.TaxID)
	setIfPresent(&company.Logo, in.Logo)
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes the caller's company together with its postings.
func (s *CompanyService) Delete(ctx context.Context, ownerID uint) error {
	company, err := s.companies.GetByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.companies.Delete(ctx, company.ID)
}

func (s *CompanyService) ListApproved(ctx context.Context) ([]models.Company, error) {
	return s.companies.ListByStatus(ctx, models.CompanyApproved)
}

func (s *CompanyService) GetApproved(ctx context.Context, id uint) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.Status != models.CompanyApproved {
		return nil, apperr.NotFound("company not found")
	}
	return company, nil
}

func trimCompany(in CompanyInput) CompanyInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.TaxID = strings.TrimSpace(in.TaxID)
	return in
}
