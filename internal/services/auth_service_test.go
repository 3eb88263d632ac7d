package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterVerifyLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.auth.Register(ctx, RegisterInput{Name: " Ana ", Email: "Ana@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.False(t, u.Verified)
	require.NotNil(t, u.VerificationCode)

	mails := e.mail.to("ana@example.com")
	require.Len(t, mails, 1)
	assert.Contains(t, mails[0].body, *u.VerificationCode)

	_, err = e.auth.Login(ctx, "ana@example.com", "secret123")
	requireKind(t, err, apperr.KindForbidden)

	requireKind(t, e.auth.VerifyEmail(ctx, "ana@example.com", "000000"), apperr.KindValidation)
	require.NoError(t, e.auth.VerifyEmail(ctx, "ANA@example.com", *u.VerificationCode))

	_, err = e.auth.Login(ctx, "ana@example.com", "wrong-password")
	requireKind(t, err, apperr.KindValidation)

	session, err := e.auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	claims, err := e.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123"})
	requireKind(t, err, apperr.KindValidation)
	_, err = e.auth.Register(ctx, RegisterInput{Name: "A", Email: "not-an-email", Password: "secret123"})
	requireKind(t, err, apperr.KindValidation)
	_, err = e.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "123"})
	requireKind(t, err, apperr.KindValidation)

	_, err = e.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = e.auth.Register(ctx, RegisterInput{Name: "B", Email: "A@example.com", Password: "secret123"})
	requireKind(t, err, apperr.KindConflict)
}

func TestLoginUnknownEmail(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Login(context.Background(), "ghost@example.com", "secret123")
	requireKind(t, err, apperr.KindValidation)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.verifiedUser(t, "Ana")
	e.verifiedUser(t, "Ben")

	_, err := e.auth.UpdateProfile(ctx, ana.ID, ProfileInput{Email: "ben@example.com"})
	requireKind(t, err, apperr.KindConflict)

	u, err := e.auth.UpdateProfile(ctx, ana.ID, ProfileInput{Name: "Ana Maria", Image: "/uploads/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "/uploads/a.png", u.ProfileImage)

	requireKind(t, e.auth.ChangePassword(ctx, ana.ID, "wrong", "newsecret"), apperr.KindValidation)
	require.NoError(t, e.auth.ChangePassword(ctx, ana.ID, "secret123", "newsecret"))
	_, err = e.auth.Login(ctx, "ana@example.com", "newsecret")
	require.NoError(t, err)
}

func TestUpdateRoleDemotionRemovesCompany(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, company := e.employer(t, "Acme")
	p := e.posting(t, owner, "2026-01-01", "2026-02-01")

	u, err := e.auth.UpdateRole(ctx, owner.ID, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = e.store.Companies().GetByID(ctx, company.ID)
	requireKind(t, err, apperr.KindNotFound)
	_, err = e.store.Postings().GetByID(ctx, p.ID)
	requireKind(t, err, apperr.KindNotFound)

	notes, err := e.notices.List(ctx, owner.ID)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Contains(t, notes[0].Message, "revoked")
	assert.NotEmpty(t, e.mail.to(owner.Email))
}

func TestUpdateRoleGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.verifiedUser(t, "Ana")

	_, err := e.auth.UpdateRole(ctx, u.ID, models.RoleAdmin)
	requireKind(t, err, apperr.KindValidation)
	_, err = e.auth.UpdateRole(ctx, 999, models.RoleEmployer)
	requireKind(t, err, apperr.KindNotFound)

	admin, err := e.auth.PromoteAdmin(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	_, err = e.auth.UpdateRole(ctx, u.ID, models.RoleUser)
	requireKind(t, err, apperr.KindForbidden)
}

func TestListUsersHidesAdmins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.verifiedUser(t, "Ana")
	e.verifiedUser(t, "Ben")
	_, err := e.auth.PromoteAdmin(ctx, "ben@example.com")
	require.NoError(t, err)

	users, err := e.auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)

	n, err := e.auth.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
