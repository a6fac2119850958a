package services_test

import (
	"context"
	"testing"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/services"
	"github.com/princinho/dealsbackend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewMessageService(&testutil.MessageRepository{}, f.users)

	alice := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "alice@x.com", "pw"))
	bob := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "bob@x.com", "pw"))
	carol := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "carol@x.com", "pw"))
	admin := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "admin@x.com", "pw", "admin"))

	m, err := svc.Send(ctx, alice, bob.ID, " hi bob ")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", m.Content)
	assert.Equal(t, alice.ID, m.SenderID)
	assert.False(t, m.ID.IsZero())

	_, err = svc.Send(ctx, bob, alice.ID, "hi alice")
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol, alice.ID, "hello")
	require.NoError(t, err)

	_, err = svc.Send(ctx, alice, 999, "anyone?")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.Send(ctx, alice, bob.ID, "   ")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	conv, err := svc.Conversation(ctx, bob, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "hi bob", conv[0].Content)

	_, err = svc.Conversation(ctx, carol, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	conv, err = svc.Conversation(ctx, admin, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, conv, 2)

	mine, err := svc.All(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	everything, err := svc.All(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestSendReportsStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := services.NewMessageService(&testutil.MessageRepository{}, f.users)
	alice := auth.IdentityFromUser(testutil.CreateUser(t, f.db, "alice@x.com", "pw"))

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.Send(ctx, alice, 2, "hello")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInfrastructure, apperror.KindOf(err))
}
