package services

import (
	"context"
	"log/slog"

	"github.com/justsurfingit/jobx/internal/models"
)

const inboxLimit = 50

// NotificationService records in-app notices and queues emails. Both are
// best-effort: failures are logged and never returned to the caller.
type NotificationService struct {
	repo NotificationRepository
	mail Notifier
	log  *slog.Logger
}

func NewNotificationService(repo NotificationRepository, mail Notifier, log *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, mail: mail, log: log}
}

// Notify stores an in-app notice for the user.
func (s *NotificationService) Notify(ctx context.Context, userID uint, message string) {
	if err := s.repo.Create(ctx, &models.Notification{UserID: userID, Message: message}); err != nil {
		s.log.Error("failed to store notification", slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
	}
}

// Email queues an email; it never blocks on delivery.
func (s *NotificationService) Email(ctx context.Context, to, subject, body string) {
	s.mail.Send(ctx, to, subject, body)
}

// NotifyAndEmail does both for a user.
func (s *NotificationService) NotifyAndEmail(ctx context.Context, user *models.User, message, subject, body string) {
	s.Notify(ctx, user.ID, message)
	s.Email(ctx, user.Email, subject, body)
}

// List returns the newest notices of the user.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, inboxLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uint) error {
	return s.repo.MarkRead(ctx, userID)
}
