package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

// PostingInput carries the posting fields as submitted. Dates are strings so
// both YYYY-MM-DD and RFC 3339 values can be accepted.
type PostingInput struct {
	Title       string
	Position    string
	Salary      string
	Requirement string
	Description string
	ApplyDate   string
	EndDate     string
	Image       string
}

type PostingService struct {
	postings  PostingRepository
	companies CompanyRepository
	loc       *time.Location
	log       *slog.Logger
}

func NewPostingService(postings PostingRepository, companies CompanyRepository, loc *time.Location, log *slog.Logger) *PostingService {
	if loc == nil {
		loc = time.UTC
	}
	return &PostingService{postings: postings, companies: companies, loc: loc, log: log}
}

// Create publishes a posting under the caller's approved company.
func (s *PostingService) Create(ctx context.Context, ownerID uint, in PostingInput) (*models.Posting, error) {
	company, err := s.companies.GetByOwner(ctx, ownerID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Forbidden("an approved company is required to post jobs")
	}
	if err != nil {
		return nil, err
	}
	if company.Status != models.CompanyApproved {
		return nil, apperr.Forbidden("an approved company is required to post jobs")
	}

	in = trimPosting(in)
	if err := requireFields(map[string]string{
		"title":      in.Title,
		"position":   in.Position,
		"salary":     in.Salary,
		"apply_date": in.ApplyDate,
		"end_date":   in.EndDate,
	}); err != nil {
		return nil, err
	}
	applyDate, err := parseDate(in.ApplyDate, s.loc)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(in.EndDate, s.loc)
	if err != nil {
		return nil, err
	}
	if endDate.Before(applyDate) {
		return nil, apperr.Validation("end_date must not be before apply_date")
	}

	posting := &models.Posting{
		OwnerID:     ownerID,
		CompanyID:   company.ID,
		Title:       in.Title,
		Position:    in.Position,
		Salary:      in.Salary,
		Requirement: in.Requirement,
		Description: in.Description,
		ApplyDate:   applyDate,
		EndDate:     endDate,
		Image:       in.Image,
	}
	if err := s.postings.Create(ctx, posting); err != nil {
		return nil, err
	}
	s.log.Info("posting created", slog.Uint64("posting_id", uint64(posting.ID)), slog.Uint64("owner_id", uint64(ownerID)))
	return posting, nil
}

func (s *PostingService) Get(ctx context.Context, id uint) (*models.PostingView, error) {
	return s.postings.GetView(ctx, id)
}

func (s *PostingService) List(ctx context.Context) ([]models.PostingView, error) {
	return s.postings.ListViews(ctx)
}

// ListByCompany resolves the company to its owner and returns the owner's postings.
func (s *PostingService) ListByCompany(ctx context.Context, companyID uint) ([]models.PostingView, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.postings.ListViewsByOwner(ctx, company.OwnerID)
}

// Edit changes the owner's posting. Empty fields keep their value.
func (s *PostingService) Edit(ctx context.Context, ownerID, id uint, in PostingInput) (*models.Posting, error) {
	posting, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	in = trimPosting(in)
	setIfPresent(&posting.Title, in.Title)
	setIfPresent(&posting.Position, in.Position)
	setIfPresent(&posting.Salary, in.Salary)
	setIfPresent(&posting.Requirement, in.Requirement)
	setIfPresent(&posting.Description, in.Description)
	setIfPresent(&posting.Image, in.Image)
	if in.ApplyDate != "" {
		if posting.ApplyDate, err = parseDate(in.ApplyDate, s.loc); err != nil {
			return nil, err
		}
	}
	if in.EndDate != "" {
		if posting.EndDate, err = parseDate(in.EndDate, s.loc); err != nil {
			return nil, err
		}
	}
	if posting.EndDate.Before(posting.ApplyDate) {
		return nil, apperr.Validation("end_date must not be before apply_date")
	}
	if err := s.postings.Update(ctx, posting); err != nil {
		return nil, err
	}
	return posting, nil
}

// Delete removes the posting with its applications and messages.
func (s *PostingService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.postings.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.log.Info("posting deleted", slog.Uint64("posting_id", uint64(id)))
	return nil
}

func (s *PostingService) owned(ctx context.Context, ownerID, id uint) (*models.Posting, error) {
	posting, err := s.postings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.OwnerID != ownerID {
		return nil, apperr.Forbidden("you can only manage your own postings")
	}
	return posting, nil
}

func trimPosting(in PostingInput) PostingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Position = strings.TrimSpace(in.Position)
	in.Salary = strings.TrimSpace(in.Salary)
	in.Requirement = strings.TrimSpace(in.Requirement)
	in.Description = strings.TrimSpace(in.Description)
	in.ApplyDate = strings.TrimSpace(in.ApplyDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	return in
}
