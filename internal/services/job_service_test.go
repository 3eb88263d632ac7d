package services

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostingRequiresApprovedCompany(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := PostingInput{Title: "Go dev", Position: "Eng", Salary: "1", ApplyDate: "2026-01-01", EndDate: "2026-01-10"}

	u := e.verifiedUser(t, "Ana")
	_, err := e.postings.Create(ctx, u.ID, in)
	requireKind(t, err, apperr.KindForbidden)

	_, err = e.companies.Create(ctx, u.ID, CompanyInput{Name: "Acme", Address: "x", TaxID: "y"})
	require.NoError(t, err)
	_, err = e.postings.Create(ctx, u.ID, in)
	requireKind(t, err, apperr.KindForbidden)
}

func TestCreatePostingValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, company := e.employer(t, "Acme")

	_, err := e.postings.Create(ctx, owner.ID, PostingInput{Title: "Go dev"})
	requireKind(t, err, apperr.KindValidation)
	assert.Contains(t, err.Error(), "apply_date, end_date, position, salary")

	_, err = e.postings.Create(ctx, owner.ID, PostingInput{Title: "Go dev", Position: "Eng", Salary: "1", ApplyDate: "01/02/2026", EndDate: "2026-01-10"})
	requireKind(t, err, apperr.KindValidation)

	_, err = e.postings.Create(ctx, owner.ID, PostingInput{Title: "Go dev", Position: "Eng", Salary: "1", ApplyDate: "2026-02-01", EndDate: "2026-01-10"})
	requireKind(t, err, apperr.KindValidation)

	p := e.posting(t, owner, "2026-01-01", "2026-01-01")
	assert.Equal(t, company.ID, p.CompanyID)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), p.EndDate)
}

func TestPostingViewsAndOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, company := e.employer(t, "Acme")
	rival, _ := e.employer(t, "Globex")
	p := e.posting(t, owner, "2026-01-01", "2026-03-01")
	e.posting(t, rival, "2026-01-01", "2026-03-01")

	view, err := e.postings.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", view.EmployerName)
	assert.Equal(t, "Acme Inc", view.CompanyName)

	all, err := e.postings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCompany, err := e.postings.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, p.ID, byCompany[0].ID)

	_, err = e.postings.Edit(ctx, rival.ID, p.ID, PostingInput{Title: "Stolen"})
	requireKind(t, err, apperr.KindForbidden)
	requireKind(t, e.postings.Delete(ctx, rival.ID, p.ID), apperr.KindForbidden)

	_, err = e.postings.Edit(ctx, owner.ID, p.ID, PostingInput{EndDate: "2025-12-01"})
	requireKind(t, err, apperr.KindValidation)

	edited, err := e.postings.Edit(ctx, owner.ID, p.ID, PostingInput{Title: "Senior Go dev"})
	require.NoError(t, err)
	assert.Equal(t, "Senior Go dev", edited.Title)
	assert.Equal(t, "Engineer", edited.Position)

	require.NoError(t, e.postings.Delete(ctx, owner.ID, p.ID))
	_, err = e.postings.Get(ctx, p.ID)
	requireKind(t, err, apperr.KindNotFound)
}
