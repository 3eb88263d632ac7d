package memstore

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type CompanyRepository struct{ s *Store }

func (r *CompanyRepository) Create(_ context.Context, company *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.OwnerID == company.OwnerID {
			return apperr.Conflict("you already have a company")
		}
	}
	company.ID = r.s.nextID()
	company.CreatedAt = r.s.now()
	company.UpdatedAt = company.CreatedAt
	if company.Status == "" {
		company.Status = models.CompanyPending
	}
	r.s.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepository) GetByID(_ context.Context, id uint) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, apperr.NotFound("company not found")
	}
	return &c, nil
}

func (r *CompanyRepository) GetByOwner(_ context.Context, ownerID uint) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.OwnerID == ownerID {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("company not found")
}

func (r *CompanyRepository) Update(_ context.Context, company *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[company.ID]; !ok {
		return apperr.NotFound("company not found")
	}
	company.UpdatedAt = r.s.now()
	r.s.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepository) Approve(_ context.Context, id uint) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, apperr.NotFound("company not found")
	}
	c.Status = models.CompanyApproved
	r.s.companies[id] = c
	if u, ok := r.s.users[c.OwnerID]; ok && u.Role != models.RoleAdmin {
		u.Role = models.RoleEmployer
		r.s.users[u.ID] = u
	}
	return &c, nil
}

func (r *CompanyRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[id]; !ok {
		return apperr.NotFound("company not found")
	}
	r.s.deleteCompanyLocked(id)
	return nil
}

func (r *CompanyRepository) List(_ context.Context) ([]models.Company, error) {
	return r.filter(func(models.Company) bool { return true }), nil
}

func (r *CompanyRepository) ListByStatus(_ context.Context, status string) ([]models.Company, error) {
	return r.filter(func(c models.Company) bool { return c.Status == status }), nil
}

// filter returns matches newest first.
func (r *CompanyRepository) filter(keep func(models.Company) bool) []models.Company {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := sortedKeys(r.s.companies)
	var out []models.Company
	for i := len(keys) - 1; i >= 0; i-- {
		if c := r.s.companies[keys[i]]; keep(c) {
			out = append(out, c)
		}
	}
	return out
}
