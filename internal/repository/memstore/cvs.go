package memstore

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type CVRepository struct{ s *Store }

func (r *CVRepository) Create(_ context.Context, cv *models.CV) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cvs {
		if c.UserID == cv.UserID {
			return apperr.Conflict("CV already exists")
		}
	}
	cv.ID = r.s.nextID()
	cv.CreatedAt = r.s.now()
	cv.UpdatedAt = cv.CreatedAt
	r.s.cvs[cv.ID] = *cv
	return nil
}

func (r *CVRepository) GetByUser(_ context.Context, userID uint) (*models.CV, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cvs {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("CV not found")
}

func (r *CVRepository) Update(_ context.Context, cv *models.CV) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cvs[cv.ID]; !ok {
		return apperr.NotFound("CV not found")
	}
	cv.UpdatedAt = r.s.now()
	r.s.cvs[cv.ID] = *cv
	return nil
}

func (r *CVRepository) DeleteByUser(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.cvs {
		if c.UserID == userID {
			delete(r.s.cvs, id)
			return nil
		}
	}
	return apperr.NotFound("CV not found")
}
