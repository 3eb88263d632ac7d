//go:build integration
// +build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/database"
	"github.com/justsurfingit/jobx/internal/logging"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupTestDB starts postgres, migrates the schema and returns a gorm handle.
func setupTestDB(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("jobx"),
		postgres.WithUsername("jobx"),
		postgres.WithPassword("jobx"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := logging.Discard()
	db, err := database.Connect(ctx, database.Options{DSN: connStr, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: time.Minute}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db, log))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixture struct {
	users        *repository.UserRepository
	companies    *repository.CompanyRepository
	postings     *repository.PostingRepository
	applications *repository.ApplicationRepository
	messages     *repository.MessageRepository
	cvs          *repository.CVRepository
	notices      *repository.NotificationRepository
}

func newFixture(db *gorm.DB) fixture {
	return fixture{
		users:        repository.NewUserRepository(db),
		companies:    repository.NewCompanyRepository(db),
		postings:     repository.NewPostingRepository(db),
		applications: repository.NewApplicationRepository(db),
		messages:     repository.NewMessageRepository(db),
		cvs:          repository.NewCVRepository(db),
		notices:      repository.NewNotificationRepository(db),
	}
}

func (f fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, PasswordHash: "x", Role: models.RoleUser, Verified: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f fixture) posting(t *testing.T, owner *models.User, end time.Time) *models.Posting {
	t.Helper()
	ctx := context.Background()
	company, err := f.companies.GetByOwner(ctx, owner.ID)
	if err != nil {
		company = &models.Company{OwnerID: owner.ID, Name: "Acme " + owner.Email, Address: "Main st", TaxID: "PAN1", Status: models.CompanyPending}
		require.NoError(t, f.companies.Create(ctx, company))
		_, err = f.companies.Approve(ctx, company.ID)
		require.NoError(t, err)
	}
	p := &models.Posting{
		OwnerID: owner.ID, CompanyID: company.ID, Title: "Backend engineer", Position: "Engineer",
		Salary: "100k", ApplyDate: end.Add(-48 * time.Hour), EndDate: end,
	}
	require.NoError(t, f.postings.Create(ctx, p))
	return p
}

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := setupTestDB(t)
	f := newFixture(db)
	ctx := context.Background()

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		f.user(t, "dup@example.com")
		err := f.users.Create(ctx, &models.User{Name: "x", Email: "dup@example.com", PasswordHash: "x", Role: models.RoleUser})
		assert.True(t, apperr.Is(err, apperr.KindConflict))

		_, err = f.users.GetByEmail(ctx, "nobody@example.com")
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("approve promotes owner", func(t *testing.T) {
		owner := f.user(t, "owner1@example.com")
		f.posting(t, owner, time.Now().Add(72*time.Hour))

		reloaded, err := f.users.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEmployer, reloaded.Role)

		err = f.companies.Create(ctx, &models.Company{OwnerID: owner.ID, Name: "Second", Address: "a", TaxID: "b"})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("duplicate application hits the unique index", func(t *testing.T) {
		owner := f.user(t, "owner2@example.com")
		seeker := f.user(t, "seeker2@example.com")
		p := f.posting(t, owner, time.Now().Add(72*time.Hour))

		app := &models.Application{PostingID: p.ID, ApplicantID: seeker.ID, Name: "S", Email: seeker.Email, Status: models.ApplicationPending}
		require.NoError(t, f.applications.Create(ctx, app))
		err := f.applications.Create(ctx, &models.Application{PostingID: p.ID, ApplicantID: seeker.ID, Name: "S", Email: seeker.Email, Status: models.ApplicationPending})
		assert.True(t, apperr.Is(err, apperr.KindConflict))

		views, err := f.applications.ListForOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Backend engineer", views[0].Title)
		assert.Equal(t, "Acme owner2@example.com", views[0].CompanyName)
	})

	t.Run("history and conversations", func(t *testing.T) {
		owner := f.user(t, "owner3@example.com")
		seeker := f.user(t, "seeker3@example.com")
		applicantOnly := f.user(t, "seeker3b@example.com")
		p := f.posting(t, owner, time.Now().Add(72*time.Hour))
		require.NoError(t, f.applications.Create(ctx, &models.Application{PostingID: p.ID, ApplicantID: applicantOnly.ID, Name: "B", Email: applicantOnly.Email, Status: models.ApplicationPending}))

		first := &models.Message{PostingID: p.ID, SenderID: seeker.ID, Body: "hello"}
		require.NoError(t, f.messages.Create(ctx, first))
		second := &models.Message{PostingID: p.ID, SenderID: owner.ID, Body: "hi there"}
		require.NoError(t, f.messages.Create(ctx, second))

		history, err := f.messages.ListByPosting(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "hello", history[0].Body)
		assert.Equal(t, "seeker3@example.com", history[0].SenderName)

		loaded, err := f.messages.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "owner3@example.com", loaded.SenderName)

		convs, err := f.messages.ConversationsForOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, convs, 1)
		assert.Equal(t, owner.ID, convs[0].CounterpartID)
		require.NotNil(t, convs[0].LastMessage)
		assert.Equal(t, "hi there", *convs[0].LastMessage)

		convs, err = f.messages.ConversationsForSeeker(ctx, applicantOnly.ID)
		require.NoError(t, err)
		require.Len(t, convs, 1)
		assert.Equal(t, owner.ID, convs[0].CounterpartID)
	})

	t.Run("cascade delete removes dependents", func(t *testing.T) {
		owner := f.user(t, "owner4@example.com")
		seeker := f.user(t, "seeker4@example.com")
		p := f.posting(t, owner, time.Now().Add(-time.Hour))
		require.NoError(t, f.applications.Create(ctx, &models.Application{PostingID: p.ID, ApplicantID: seeker.ID, Name: "S", Email: seeker.Email, Status: models.ApplicationPending}))
		require.NoError(t, f.messages.Create(ctx, &models.Message{PostingID: p.ID, SenderID: seeker.ID, Body: "x"}))

		expired, err := f.postings.EndedBefore(ctx, time.Now())
		require.NoError(t, err)
		var ids []uint
		for _, e := range expired {
			ids = append(ids, e.ID)
		}
		require.Contains(t, ids, p.ID)
		require.NoError(t, f.postings.DeleteCascade(ctx, ids...))

		_, err = f.postings.GetByID(ctx, p.ID)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		apps, err := f.applications.ListForApplicant(ctx, seeker.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, apps)
	})

	t.Run("downgrade removes company", func(t *testing.T) {
		owner := f.user(t, "owner5@example.com")
		p := f.posting(t, owner, time.Now().Add(72*time.Hour))

		require.NoError(t, f.users.SetRole(ctx, owner.ID, models.RoleUser, true))
		_, err := f.companies.GetByOwner(ctx, owner.ID)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		_, err = f.postings.GetByID(ctx, p.ID)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("cv skills round trip", func(t *testing.T) {
		u := f.user(t, "cv@example.com")
		cv := &models.CV{UserID: u.ID, Name: "CV", Email: u.Email, Skills: []string{"go", "sql"}}
		require.NoError(t, f.cvs.Create(ctx, cv))
		loaded, err := f.cvs.GetByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "sql"}, []string(loaded.Skills))
		assert.True(t, apperr.Is(f.cvs.Create(ctx, &models.CV{UserID: u.ID, Name: "x", Email: "x"}), apperr.KindConflict))
	})

	t.Run("notifications newest first", func(t *testing.T) {
		u := f.user(t, "notice@example.com")
		require.NoError(t, f.notices.Create(ctx, &models.Notification{UserID: u.ID, Message: "one"}))
		require.NoError(t, f.notices.Create(ctx, &models.Notification{UserID: u.ID, Message: "two"}))
		list, err := f.notices.ListByUser(ctx, u.ID, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "two", list[0].Message)
		require.NoError(t, f.notices.MarkRead(ctx, u.ID))
	})
}
