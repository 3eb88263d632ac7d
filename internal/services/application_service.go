package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type ApplyInput struct {
	PostingID uint
	Name      string
	Email     string
	Resume    string
}

type StatusInput struct {
	Status       string
	ScheduleTime *string
	MeetingLink  *string
}

type ApplicationEdit struct {
	Name   string
	Email  string
	Resume string
}

type ApplicationService struct {
	applications ApplicationRepository
	postings     PostingRepository
	notices      *NotificationService
	loc          *time.Location
	log          *slog.Logger
}

func NewApplicationService(applications ApplicationRepository, postings PostingRepository, notices *NotificationService, loc *time.Location, log *slog.Logger) *ApplicationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ApplicationService{applications: applications, postings: postings, notices: notices, loc: loc, log: log}
}

func duplicateApplication(id uint) error {
	return apperr.Conflict("you have already applied for this job").With("applicationId", id)
}

// Apply records a pending application. A second application for the same
// posting is a conflict carrying the id of the first one.
func (s *ApplicationService) Apply(ctx context.Context, applicantID uint, in ApplyInput) (*models.Application, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.PostingID == 0 {
		return nil, apperr.Validation("missing required fields: work_id")
	}
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email}); err != nil {
		return nil, err
	}
	if !validEmail(in.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	posting, err := s.postings.GetByID(ctx, in.PostingID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.applications.GetByPair(ctx, posting.ID, applicantID); err == nil {
		return nil, duplicateApplication(existing.ID)
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	app := &models.Application{
		PostingID:   posting.ID,
		ApplicantID: applicantID,
		Name:        in.Name,
		Email:       in.Email,
		Resume:      in.Resume,
		Status:      models.ApplicationPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// lost a race against a concurrent apply
			if existing, lookupErr := s.applications.GetByPair(ctx, posting.ID, applicantID); lookupErr == nil {
				return nil, duplicateApplication(existing.ID)
			}
		}
		return nil, err
	}
	s.notices.Notify(ctx, posting.OwnerID, fmt.Sprintf("New application from %s for %q.", app.Name, posting.Title))
	return app, nil
}

// UpdateStatus lets the posting owner decide on an application and optionally
// schedule an interview. The applicant is notified.
func (s *ApplicationService) UpdateStatus(ctx context.Context, ownerID, id uint, in StatusInput) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posting, err := s.postings.GetByID(ctx, app.PostingID)
	if err != nil {
		return nil, err
	}
	if posting.OwnerID != ownerID {
		return nil, apperr.Forbidden("you can only review applications for your own postings")
	}
	switch in.Status {
	case models.ApplicationPending, models.ApplicationApproved, models.ApplicationRejected:
	default:
		return nil, apperr.Validation("status must be pending, approved or rejected")
	}

	if in.ScheduleTime != nil && strings.TrimSpace(*in.ScheduleTime) != "" {
		schedule, err := parseSchedule(*in.ScheduleTime, s.loc)
		if err != nil {
			return nil, err
		}
		app.ScheduleTime = &schedule
	}
	if in.MeetingLink != nil {
		if link := strings.TrimSpace(*in.MeetingLink); link != "" {
			app.MeetingLink = &link
		}
	}
	app.Status = in.Status
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your application for %q is now %s.", posting.Title, app.Status)
	body := msg
	if app.ScheduleTime != nil {
		body += fmt.Sprintf("\nInterview: %s UTC", *app.ScheduleTime)
	}
	if app.MeetingLink != nil {
		body += "\nMeeting link: " + *app.MeetingLink
	}
	s.notices.Notify(ctx, app.ApplicantID, msg)
	s.notices.Email(ctx, app.Email, "Application update: "+posting.Title, body)
	return app, nil
}

// Edit changes the caller's own application. Applications of other users
// are reported as not found.
func (s *ApplicationService) Edit(ctx context.Context, applicantID, id uint, in ApplicationEdit) (*models.Application, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" && in.Email == "" && in.Resume == "" {
		return nil, apperr.Validation("nothing to update")
	}
	if in.Email != "" && !validEmail(in.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	app, err := s.own(ctx, applicantID, id)
	if err != nil {
		return nil, err
	}
	setIfPresent(&app.Name, in.Name)
	setIfPresent(&app.Email, in.Email)
	setIfPresent(&app.Resume, in.Resume)
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) Delete(ctx context.Context, applicantID, id uint) error {
	if _, err := s.own(ctx, applicantID, id); err != nil {
		return err
	}
	return s.applications.Delete(ctx, id)
}

func (s *ApplicationService) ListForApplicant(ctx context.Context, applicantID uint, postingID *uint) ([]models.ApplicationView, error) {
	return s.applications.ListForApplicant(ctx, applicantID, postingID)
}

// ListForEmployer returns applications to postings the caller owns.
func (s *ApplicationService) ListForEmployer(ctx context.Context, ownerID uint) ([]models.ApplicationView, error) {
	return s.applications.ListForOwner(ctx, ownerID)
}

func (s *ApplicationService) own(ctx context.Context, applicantID, id uint) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, apperr.NotFound("application not found")
	}
	return app, nil
}
