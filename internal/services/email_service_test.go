package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsListAndMarkRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.verifiedUser(t, "Ana")

	e.notices.Notify(ctx, u.ID, "first")
	e.notices.NotifyAndEmail(ctx, u, "second", "Subject", "Body")
	e.notices.Email(ctx, "", "ignored", "no recipient")

	notes, err := e.notices.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Message)
	assert.False(t, notes[0].Read)

	mails := e.mail.to(u.Email)
	assert.Equal(t, "Subject", mails[len(mails)-1].subject)

	require.NoError(t, e.notices.MarkRead(ctx, u.ID))
	notes, err = e.notices.List(ctx, u.ID)
	require.NoError(t, err)
	for _, n := range notes {
		assert.True(t, n.Read)
	}
}
