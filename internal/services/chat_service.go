package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/realtime"
)

// MessageDeleted is broadcast when a message is removed.
type MessageDeleted struct {
	PostingID uint `json:"postingId"`
	MessageID uint `json:"messageId"`
}

// ChatService stores chat messages and pushes them to the posting's room.
// Participants are the posting owner, its applicants and admins.
type ChatService struct {
	messages     MessageRepository
	postings     PostingRepository
	applications ApplicationRepository
	broadcaster  Broadcaster
	log          *slog.Logger
}

func NewChatService(messages MessageRepository, postings PostingRepository, applications ApplicationRepository, broadcaster Broadcaster, log *slog.Logger) *ChatService {
	return &ChatService{messages: messages, postings: postings, applications: applications, broadcaster: broadcaster, log: log}
}

func (s *ChatService) authorize(ctx context.Context, postingID, userID uint, role string) (*models.Posting, error) {
	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin || posting.OwnerID == userID {
		return posting, nil
	}
	_, err = s.applications.GetByPair(ctx, postingID, userID)
	if err == nil {
		return posting, nil
	}
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Forbidden("you are not part of this chat")
	}
	return nil, err
}

// Join checks that the user may enter the posting's room.
func (s *ChatService) Join(ctx context.Context, postingID, userID uint, role string) error {
	_, err := s.authorize(ctx, postingID, userID, role)
	return err
}

// Send stores the message and broadcasts it to the room, sender included.
// A failed broadcast does not undo the stored message.
func (s *ChatService) Send(ctx context.Context, postingID, senderID uint, role, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("message is required")
	}
	if _, err := s.authorize(ctx, postingID, senderID, role); err != nil {
		return nil, err
	}
	msg := &models.Message{PostingID: postingID, SenderID: senderID, Body: body}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	stored, err := s.messages.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if err := s.broadcaster.Broadcast(ctx, realtime.RoomName(postingID), realtime.EventReceiveMessage, stored); err != nil {
		s.log.Error("chat broadcast failed", slog.Uint64("posting_id", uint64(postingID)), slog.String("error", err.Error()))
	}
	return stored, nil
}

// Delete removes the caller's own message.
func (s *ChatService) Delete(ctx context.Context, messageID, callerID uint) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != callerID {
		return apperr.Forbidden("you can only delete your own messages")
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return err
	}
	event := MessageDeleted{PostingID: msg.PostingID, MessageID: msg.ID}
	if err := s.broadcaster.Broadcast(ctx, realtime.RoomName(msg.PostingID), realtime.EventMessageDeleted, event); err != nil {
		s.log.Error("chat broadcast failed", slog.Uint64("posting_id", uint64(msg.PostingID)), slog.String("error", err.Error()))
	}
	return nil
}

// History returns the posting's messages oldest first.
func (s *ChatService) History(ctx context.Context, postingID uint, actor Actor) ([]models.Message, error) {
	if _, err := s.authorize(ctx, postingID, actor.ID, actor.Role); err != nil {
		return nil, err
	}
	return s.messages.ListByPosting(ctx, postingID)
}

// Conversations lists chats for the caller: owned postings for employers,
// postings written in or applied to for everyone else.
func (s *ChatService) Conversations(ctx context.Context, actor Actor) ([]models.Conversation, error) {
	if actor.Role == models.RoleEmployer {
		return s.messages.ConversationsForOwner(ctx, actor.ID)
	}
	return s.messages.ConversationsForSeeker(ctx, actor.ID)
}
