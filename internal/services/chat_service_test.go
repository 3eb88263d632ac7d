package services

import (
	"context"
	"errors"
	"testing"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatAuthorization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, _ := e.employer(t, "Acme")
	p := e.posting(t, owner, "2026-01-01", "2026-03-01")
	applicant := e.verifiedUser(t, "Ana")
	stranger := e.verifiedUser(t, "Eve")
	_, err := e.applications.Apply(ctx, applicant.ID, ApplyInput{PostingID: p.ID, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, e.chat.Join(ctx, p.ID, owner.ID, models.RoleEmployer))
	require.NoError(t, e.chat.Join(ctx, p.ID, applicant.ID, models.RoleUser))
	require.NoError(t, e.chat.Join(ctx, p.ID, stranger.ID, models.RoleAdmin))
	requireKind(t, e.chat.Join(ctx, p.ID, stranger.ID, models.RoleUser), apperr.KindForbidden)
	requireKind(t, e.chat.Join(ctx, 999, owner.ID, models.RoleEmployer), apperr.KindNotFound)

	_, err = e.chat.Send(ctx, p.ID, stranger.ID, models.RoleUser, "hi")
	requireKind(t, err, apperr.KindForbidden)
	_, err = e.chat.History(ctx, p.ID, Actor{ID: stranger.ID, Role: models.RoleUser})
	requireKind(t, err, apperr.KindForbidden)
	assert.Empty(t, e.bus.sent)
}

func TestChatSendBroadcastsAndStores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, _ := e.employer(t, "Acme")
	p := e.posting(t, owner, "2026-01-01", "2026-03-01")
	applicant := e.verifiedUser(t, "Ana")
	_, err := e.applications.Apply(ctx, applicant.ID, ApplyInput{PostingID: p.ID, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = e.chat.Send(ctx, p.ID, applicant.ID, models.RoleUser, "   ")
	requireKind(t, err, apperr.KindValidation)

	msg, err := e.chat.Send(ctx, p.ID, applicant.ID, models.RoleUser, " Hello! ")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", msg.Body)
	assert.Equal(t, "Ana", msg.SenderName)

	require.Len(t, e.bus.sent, 1)
	assert.Equal(t, realtime.RoomName(p.ID), e.bus.sent[0].room)
	assert.Equal(t, realtime.EventReceiveMessage, e.bus.sent[0].event)

	// a failing broadcast still keeps the message
	e.bus.err = errors.New("redis down")
	_, err = e.chat.Send(ctx, p.ID, owner.ID, models.RoleEmployer, "Welcome")
	require.NoError(t, err)

	history, err := e.chat.History(ctx, p.ID, Actor{ID: owner.ID, Role: models.RoleEmployer})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Hello!", history[0].Body)
	assert.Equal(t, "Welcome", history[1].Body)
}

func TestChatDeleteOwnMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, _ := e.employer(t, "Acme")
	p := e.posting(t, owner, "2026-01-01", "2026-03-01")
	msg, err := e.chat.Send(ctx, p.ID, owner.ID, models.RoleEmployer, "hello")
	require.NoError(t, err)

	other := e.verifiedUser(t, "Ana")
	requireKind(t, e.chat.Delete(ctx, msg.ID, other.ID), apperr.KindForbidden)
	require.NoError(t, e.chat.Delete(ctx, msg.ID, owner.ID))
	requireKind(t, e.chat.Delete(ctx, msg.ID, owner.ID), apperr.KindNotFound)

	last := e.bus.sent[len(e.bus.sent)-1]
	assert.Equal(t, realtime.EventMessageDeleted, last.event)
	assert.Equal(t, MessageDeleted{PostingID: p.ID, MessageID: msg.ID}, last.payload)
}

func TestConversationsByRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner, _ := e.employer(t, "Acme")
	p := e.posting(t, owner, "2026-01-01", "2026-03-01")
	applied := e.posting(t, owner, "2026-01-01", "2026-03-01")
	seeker := e.verifiedUser(t, "Ana")

	_, err := e.applications.Apply(ctx, seeker.ID, ApplyInput{PostingID: p.ID, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = e.applications.Apply(ctx, seeker.ID, ApplyInput{PostingID: applied.ID, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = e.chat.Send(ctx, p.ID, seeker.ID, models.RoleUser, "any news?")
	require.NoError(t, err)

	seekerView, err := e.chat.Conversations(ctx, Actor{ID: seeker.ID, Role: models.RoleUser})
	require.NoError(t, err)
	require.Len(t, seekerView, 2)
	assert.Equal(t, p.ID, seekerView[0].PostingID)
	require.NotNil(t, seekerView[0].LastMessage)
	assert.Equal(t, "any news?", *seekerView[0].LastMessage)
	assert.Equal(t, "Acme", seekerView[0].CounterpartName)
	assert.Nil(t, seekerView[1].LastMessage)

	ownerView, err := e.chat.Conversations(ctx, Actor{ID: owner.ID, Role: models.RoleEmployer})
	require.NoError(t, err)
	require.Len(t, ownerView, 1)
	assert.Equal(t, "Ana", ownerView[0].CounterpartName)
}
