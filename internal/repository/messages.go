package repository

import (
	"context"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"gorm.io/gorm"
)

// seeker: every posting the user wrote in or applied to, with the newest message if any.
const seekerConversationsSQL = `
SELECT p.id AS posting_id, p.title AS posting_title,
       o.id AS counterpart_id, o.name AS counterpart_name,
       lm.body AS last_message, lm.created_at AS last_message_time
FROM postings p
JOIN users o ON o.id = p.owner_id
LEFT JOIN LATERAL (
    SELECT m.body, m.created_at FROM messages m
    WHERE m.posting_id = p.id
    ORDER BY m.created_at DESC, m.id DESC
    LIMIT 1
) lm ON TRUE
WHERE p.id IN (SELECT posting_id FROM messages WHERE sender_id = ?)
   OR p.id IN (SELECT posting_id FROM applications WHERE applicant_id = ?)
ORDER BY lm.created_at DESC NULLS LAST, p.id DESC`

// owner: owned postings that have messages, with the newest one and its sender.
const ownerConversationsSQL = `
SELECT p.id AS posting_id, p.title AS posting_title,
       s.id AS counterpart_id, s.name AS counterpart_name,
       lm.body AS last_message, lm.created_at AS last_message_time
FROM postings p
JOIN LATERAL (
    SELECT m.body, m.created_at, m.sender_id FROM messages m
    WHERE m.posting_id = p.id
    ORDER BY m.created_at DESC, m.id DESC
    LIMIT 1
) lm ON TRUE
JOIN users s ON s.id = lm.sender_id
WHERE p.owner_id = ?
ORDER BY lm.created_at DESC, p.id DESC`

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) withSender(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.created_at, m.posting_id, m.sender_id, m.body, u.name AS sender_name").
		Joins("JOIN users u ON u.id = m.sender_id")
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	err := r.db.WithContext(ctx).Create(msg).Error
	return translate(err, "message not found", "", "failed to save message")
}

func (r *MessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	res := r.withSender(ctx).Where("m.id = ?", id).Limit(1).Scan(&msg)
	if res.Error != nil {
		return nil, apperr.Internal("failed to load message", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("message not found")
	}
	return &msg, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if res.Error != nil {
		return apperr.Internal("failed to delete message", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("message not found")
	}
	return nil
}

func (r *MessageRepository) ListByPosting(ctx context.Context, postingID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.withSender(ctx).
		Where("m.posting_id = ?", postingID).
		Order("m.created_at ASC, m.id ASC").
		Scan(&msgs).Error
	if err != nil {
		return nil, apperr.Internal("failed to load chat history", err)
	}
	return msgs, nil
}

func (r *MessageRepository) ConversationsForSeeker(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := r.db.WithContext(ctx).Raw(seekerConversationsSQL, userID, userID).Scan(&out).Error; err != nil {
		return nil, apperr.Internal("failed to load conversations", err)
	}
	return out, nil
}

func (r *MessageRepository) ConversationsForOwner(ctx context.Context, ownerID uint) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := r.db.WithContext(ctx).Raw(ownerConversationsSQL, ownerID).Scan(&out).Error; err != nil {
		return nil, apperr.Internal("failed to load conversations", err)
	}
	return out, nil
}
