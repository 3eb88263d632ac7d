package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/auth"
	"github.com/justsurfingit/jobx/internal/logging"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/repository/memstore"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
}

func (n *fakeNotifier) to(addr string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.to == addr {
			out = append(out, m)
		}
	}
	return out
}

type broadcast struct {
	room, event string
	payload     any
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []broadcast
	err  error
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, room, event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, broadcast{room: room, event: event, payload: payload})
	return b.err
}

type fakeRenderer struct{ fail bool }

func (r fakeRenderer) Render(_ context.Context, cv *models.CV) ([]byte, string, error) {
	if r.fail {
		return nil, "", errors.New("chrome missing")
	}
	return []byte("<h1>" + cv.Name + "</h1>"), ".html", nil
}

type fakeFiles struct {
	mu      sync.Mutex
	seq     int
	files   map[string][]byte
	removed []string
}

func newFakeFiles() *fakeFiles { return &fakeFiles{files: make(map[string][]byte)} }

func (f *fakeFiles) Put(ext string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	path := "/uploads/doc" + strings.Repeat("x", f.seq) + ext
	f.files[path] = data
	return path, nil
}

func (f *fakeFiles) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	f.removed = append(f.removed, path)
	return nil
}

// env wires every service against one in-memory store.
type env struct {
	store   *memstore.Store
	mail    *fakeNotifier
	bus     *fakeBroadcaster
	files   *fakeFiles
	notices *NotificationService
	tokens  *auth.TokenIssuer

	auth         *AuthService
	companies    *CompanyService
	postings     *PostingService
	applications *ApplicationService
	chat         *ChatService
	cvs          *CVService
	sweeper      *ExpirySweeper
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logging.Discard()
	store := memstore.New()
	e := &env{
		store:  store,
		mail:   &fakeNotifier{},
		bus:    &fakeBroadcaster{},
		files:  newFakeFiles(),
		tokens: auth.NewTokenIssuer("test-secret", time.Hour),
	}
	e.notices = NewNotificationService(store.Notifications(), e.mail, log)
	e.auth = NewAuthService(store.Users(), store.Companies(), &auth.BcryptHasher{Cost: 4}, e.tokens, e.notices, log)
	e.companies = NewCompanyService(store.Companies(), store.Users(), e.notices, log)
	e.postings = NewPostingService(store.Postings(), store.Companies(), time.UTC, log)
	e.applications = NewApplicationService(store.Applications(), store.Postings(), e.notices, time.UTC, log)
	e.chat = NewChatService(store.Messages(), store.Postings(), store.Applications(), e.bus, log)
	e.cvs = NewCVService(store.CVs(), fakeRenderer{}, e.files, log)
	e.sweeper = NewExpirySweeper(store.Postings(), store.Users(), e.notices, time.UTC, log)
	return e
}

// verifiedUser registers and verifies an account.
func (e *env) verifiedUser(t *testing.T, name string) *models.User {
	t.Helper()
	ctx := context.Background()
	email := strings.ToLower(name) + "@example.com"
	u, err := e.auth.Register(ctx, RegisterInput{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, e.auth.VerifyEmail(ctx, email, *u.VerificationCode))
	u, err = e.store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	return u
}

// employer returns a user with an approved company.
func (e *env) employer(t *testing.T, name string) (*models.User, *models.Company) {
	t.Helper()
	ctx := context.Background()
	u := e.verifiedUser(t, name)
	c, err := e.companies.Create(ctx, u.ID, CompanyInput{Name: name + " Inc", Address: "1 Main st", TaxID: "PAN-" + name})
	require.NoError(t, err)
	c, err = e.companies.Approve(ctx, c.ID, models.CompanyApproved)
	require.NoError(t, err)
	u.Role = models.RoleEmployer
	return u, c
}

func (e *env) posting(t *testing.T, owner *models.User, apply, end string) *models.Posting {
	t.Helper()
	p, err := e.postings.Create(context.Background(), owner.ID, PostingInput{
		Title: "Go developer", Position: "Engineer", Salary: "100k", ApplyDate: apply, EndDate: end,
	})
	require.NoError(t, err)
	return p
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}
