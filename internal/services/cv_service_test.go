package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCVLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.verifiedUser(t, "Ana")

	_, err := e.cvs.Get(ctx, u.ID)
	requireKind(t, err, apperr.KindNotFound)
	_, err = e.cvs.Create(ctx, u.ID, CVInput{Name: "Ana"})
	requireKind(t, err, apperr.KindValidation)

	cv, err := e.cvs.Create(ctx, u.ID, CVInput{
		Name:   "Ana",
		Email:  "ana@example.com",
		Skills: []string{" Go ", "", "SQL"},
		Photo:  "/uploads/photo.png",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, []string(cv.Skills))
	require.NotEmpty(t, cv.DocumentPath)
	assert.Contains(t, string(e.files.files[cv.DocumentPath]), "Ana")

	_, err = e.cvs.Create(ctx, u.ID, CVInput{Name: "Ana", Email: "ana@example.com"})
	requireKind(t, err, apperr.KindConflict)

	first := cv.DocumentPath
	cv, err = e.cvs.Update(ctx, u.ID, CVInput{Name: "Ana Maria"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", cv.Name)
	assert.Equal(t, []string{"Go", "SQL"}, []string(cv.Skills))
	assert.NotEqual(t, first, cv.DocumentPath)
	assert.Contains(t, e.files.removed, first)

	require.NoError(t, e.cvs.Delete(ctx, u.ID))
	assert.Contains(t, e.files.removed, cv.DocumentPath)
	assert.Contains(t, e.files.removed, "/uploads/photo.png")
	requireKind(t, e.cvs.Delete(ctx, u.ID), apperr.KindNotFound)
}

func TestCVSavedWhenRenderingFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.verifiedUser(t, "Ana")
	svc := NewCVService(e.store.CVs(), fakeRenderer{fail: true}, e.files, logging.Discard())

	cv, err := svc.Create(ctx, u.ID, CVInput{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Empty(t, cv.DocumentPath)
	assert.Empty(t, e.files.files)
}
