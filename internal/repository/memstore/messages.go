package memstore

import (
	"context"
	"sort"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
)

type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(_ context.Context, msg *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.postings[msg.PostingID]; !ok {
		return apperr.NotFound("posting not found")
	}
	msg.ID = r.s.nextID()
	msg.CreatedAt = r.s.now()
	stored := *msg
	stored.SenderName = ""
	r.s.messages[msg.ID] = stored
	return nil
}

func (r *MessageRepository) GetByID(_ context.Context, id uint) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, apperr.NotFound("message not found")
	}
	m.SenderName = r.s.users[m.SenderID].Name
	return &m, nil
}

func (r *MessageRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[id]; !ok {
		return apperr.NotFound("message not found")
	}
	delete(r.s.messages, id)
	return nil
}

func (r *MessageRepository) ListByPosting(_ context.Context, postingID uint) ([]models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.byPostingLocked(postingID)
	for i := range out {
		out[i].SenderName = r.s.users[out[i].SenderID].Name
	}
	return out, nil
}

func (r *MessageRepository) ConversationsForSeeker(_ context.Context, userID uint) ([]models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	involved := make(map[uint]bool)
	for _, m := range r.s.messages {
		if m.SenderID == userID {
			involved[m.PostingID] = true
		}
	}
	for _, a := range r.s.applications {
		if a.ApplicantID == userID {
			involved[a.PostingID] = true
		}
	}
	var out []models.Conversation
	for postingID := range involved {
		p, ok := r.s.postings[postingID]
		if !ok {
			continue
		}
		conv := models.Conversation{
			PostingID:       p.ID,
			PostingTitle:    p.Title,
			CounterpartID:   p.OwnerID,
			CounterpartName: r.s.users[p.OwnerID].Name,
		}
		if msgs := r.byPostingLocked(p.ID); len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			conv.LastMessage = &last.Body
			conv.LastMessageTime = &last.CreatedAt
		}
		out = append(out, conv)
	}
	sortConversations(out)
	return out, nil
}

func (r *MessageRepository) ConversationsForOwner(_ context.Context, ownerID uint) ([]models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Conversation
	for _, p := range r.s.postings {
		if p.OwnerID != ownerID {
			continue
		}
		msgs := r.byPostingLocked(p.ID)
		if len(msgs) == 0 {
			continue
		}
		last := msgs[len(msgs)-1]
		out = append(out, models.Conversation{
			PostingID:       p.ID,
			PostingTitle:    p.Title,
			CounterpartID:   last.SenderID,
			CounterpartName: r.s.users[last.SenderID].Name,
			LastMessage:     &last.Body,
			LastMessageTime: &last.CreatedAt,
		})
	}
	sortConversations(out)
	return out, nil
}

// byPostingLocked returns the posting's messages oldest first.
func (r *MessageRepository) byPostingLocked(postingID uint) []models.Message {
	var out []models.Message
	for _, m := range r.s.messages {
		if m.PostingID == postingID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// sortConversations orders by latest message, conversations without messages last.
func sortConversations(out []models.Conversation) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastMessageTime, out[j].LastMessageTime
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return out[i].PostingID > out[j].PostingID
	})
}
