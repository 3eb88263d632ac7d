package memstore

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(_ context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.PostingID == app.PostingID && a.ApplicantID == app.ApplicantID {
			return apperr.Conflict("you have already applied for this job")
		}
	}
	app.ID = r.s.nextID()
	app.CreatedAt = r.s.now()
	app.UpdatedAt = app.CreatedAt
	r.s.applications[app.ID] = *app
	return nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id uint) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, apperr.NotFound("application not found")
	}
	return &a, nil
}

func (r *ApplicationRepository) GetByPair(_ context.Context, postingID, applicantID uint) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.PostingID == postingID && a.ApplicantID == applicantID {
			return &a, nil
		}
	}
	return nil, apperr.NotFound("application not found")
}

func (r *ApplicationRepository) Update(_ context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.applications[app.ID]; !ok {
		return apperr.NotFound("application not found")
	}
	app.UpdatedAt = r.s.now()
	r.s.applications[app.ID] = *app
	return nil
}

func (r *ApplicationRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.applications[id]; !ok {
		return apperr.NotFound("application not found")
	}
	delete(r.s.applications, id)
	return nil
}

func (r *ApplicationRepository) ListForApplicant(_ context.Context, applicantID uint, postingID *uint) ([]models.ApplicationView, error) {
	return r.views(func(a models.Application, _ models.Posting) bool {
		return a.ApplicantID == applicantID && (postingID == nil || a.PostingID == *postingID)
	}), nil
}

func (r *ApplicationRepository) ListForOwner(_ context.Context, ownerID uint) ([]models.ApplicationView, error) {
	return r.views(func(_ models.Application, p models.Posting) bool { return p.OwnerID == ownerID }), nil
}

func (r *ApplicationRepository) views(keep func(models.Application, models.Posting) bool) []models.ApplicationView {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := sortedKeys(r.s.applications)
	var out []models.ApplicationView
	for i := len(keys) - 1; i >= 0; i-- {
		a := r.s.applications[keys[i]]
		p, ok := r.s.postings[a.PostingID]
		if !ok || !keep(a, p) {
			continue
		}
		out = append(out, models.ApplicationView{
			ID:           a.ID,
			PostingID:    a.PostingID,
			ApplicantID:  a.ApplicantID,
			Name:         a.Name,
			Email:        a.Email,
			Resume:       a.Resume,
			Status:       a.Status,
			ScheduleTime: a.ScheduleTime,
			MeetingLink:  a.MeetingLink,
			Title:        p.Title,
			PostingImage: p.Image,
			CompanyName:  r.s.companies[p.CompanyID].Name,
		})
	}
	return out
}
