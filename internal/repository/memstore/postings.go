package memstore

import (
	"context"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type PostingRepository struct{ s *Store }

func (r *PostingRepository) Create(_ context.Context, posting *models.Posting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posting.ID = r.s.nextID()
	posting.CreatedAt = r.s.now()
	posting.UpdatedAt = posting.CreatedAt
	r.s.postings[posting.ID] = *posting
	return nil
}

func (r *PostingRepository) GetByID(_ context.Context, id uint) (*models.Posting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.postings[id]
	if !ok {
		return nil, apperr.NotFound("posting not found")
	}
	return &p, nil
}

func (r *PostingRepository) GetView(_ context.Context, id uint) (*models.PostingView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.postings[id]
	if !ok {
		return nil, apperr.NotFound("posting not found")
	}
	v := r.viewLocked(p)
	return &v, nil
}

func (r *PostingRepository) ListViews(_ context.Context) ([]models.PostingView, error) {
	return r.views(func(models.Posting) bool { return true }), nil
}

func (r *PostingRepository) ListViewsByOwner(_ context.Context, ownerID uint) ([]models.PostingView, error) {
	return r.views(func(p models.Posting) bool { return p.OwnerID == ownerID }), nil
}

func (r *PostingRepository) Update(_ context.Context, posting *models.Posting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.postings[posting.ID]; !ok {
		return apperr.NotFound("posting not found")
	}
	posting.UpdatedAt = r.s.now()
	r.s.postings[posting.ID] = *posting
	return nil
}

func (r *PostingRepository) DeleteCascade(_ context.Context, ids ...uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deletePostingsLocked(ids)
	return nil
}

func (r *PostingRepository) EndingBetween(_ context.Context, from, to time.Time) ([]models.Posting, error) {
	return r.matching(func(p models.Posting) bool {
		return !p.EndDate.Before(from) && p.EndDate.Before(to)
	}), nil
}

func (r *PostingRepository) EndedBefore(_ context.Context, t time.Time) ([]models.Posting, error) {
	return r.matching(func(p models.Posting) bool { return p.EndDate.Before(t) }), nil
}

func (r *PostingRepository) matching(keep func(models.Posting) bool) []models.Posting {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Posting
	for _, id := range sortedKeys(r.s.postings) {
		if p := r.s.postings[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// views returns matches newest first, like the SQL ordering.
func (r *PostingRepository) views(keep func(models.Posting) bool) []models.PostingView {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := sortedKeys(r.s.postings)
	var out []models.PostingView
	for i := len(keys) - 1; i >= 0; i-- {
		if p := r.s.postings[keys[i]]; keep(p) {
			out = append(out, r.viewLocked(p))
		}
	}
	return out
}

func (r *PostingRepository) viewLocked(p models.Posting) models.PostingView {
	return models.PostingView{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		CompanyID:    p.CompanyID,
		Title:        p.Title,
		Position:     p.Position,
		Salary:       p.Salary,
		Requirement:  p.Requirement,
		Description:  p.Description,
		ApplyDate:    p.ApplyDate,
		EndDate:      p.EndDate,
		Image:        p.Image,
		CreatedAt:    p.CreatedAt,
		EmployerName: r.s.users[p.OwnerID].Name,
		CompanyName:  r.s.companies[p.CompanyID].Name,
	}
}
