package services

import (
	"context"
	"time"

	"github.com/justsurfingit/jobx/internal/models"
)

// Repositories return *apperr.Error values: NotFound for missing rows and
// Conflict when a unique index rejects a write.

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// SetRole changes the role and, when removeCompany is set, deletes the
	// user's company with its postings in the same transaction.
	SetRole(ctx context.Context, userID uint, role string, removeCompany bool) error
	ListByRoles(ctx context.Context, roles ...string) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	GetByOwner(ctx context.Context, ownerID uint) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	// Approve marks the company approved and promotes its owner to employer atomically.
	Approve(ctx context.Context, id uint) (*models.Company, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Company, error)
	ListByStatus(ctx context.Context, status string) ([]models.Company, error)
}

type PostingRepository interface {
	Create(ctx context.Context, posting *models.Posting) error
	GetByID(ctx context.Context, id uint) (*models.Posting, error)
	GetView(ctx context.Context, id uint) (*models.PostingView, error)
	ListViews(ctx context.Context) ([]models.PostingView, error)
	ListViewsByOwner(ctx context.Context, ownerID uint) ([]models.PostingView, error)
	Update(ctx context.Context, posting *models.Posting) error
	// DeleteCascade removes the postings with their applications and messages in one transaction.
	DeleteCascade(ctx context.Context, ids ...uint) error
	EndingBetween(ctx context.Context, from, to time.Time) ([]models.Posting, error)
	EndedBefore(ctx context.Context, t time.Time) ([]models.Posting, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	GetByPair(ctx context.Context, postingID, applicantID uint) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uint) error
	ListForApplicant(ctx context.Context, applicantID uint, postingID *uint) ([]models.ApplicationView, error)
	ListForOwner(ctx context.Context, ownerID uint) ([]models.ApplicationView, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// GetByID loads the message with its sender name.
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	ListByPosting(ctx context.Context, postingID uint) ([]models.Message, error)
	ConversationsForSeeker(ctx context.Context, userID uint) ([]models.Conversation, error)
	ConversationsForOwner(ctx context.Context, ownerID uint) ([]models.Conversation, error)
}

type CVRepository interface {
	Create(ctx context.Context, cv *models.CV) error
	GetByUser(ctx context.Context, userID uint) (*models.CV, error)
	Update(ctx context.Context, cv *models.CV) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uint) error
}

// Notifier delivers email best-effort. Implementations must not block the caller.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string)
}

// Broadcaster pushes a realtime event to every connection in a room.
type Broadcaster interface {
	Broadcast(ctx context.Context, room, event string, payload any) error
}

// FileStore keeps generated files and returns their public path.
type FileStore interface {
	Put(ext string, data []byte) (string, error)
	Remove(path string) error
}
