package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/nutrisaas-chat/internal/conversation"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Minute)

	s := conversation.NewSession(conversation.AudienceGuest, nil)
	s.State = conversation.StatePlanMenu
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, conversation.StatePlanMenu, got.State)
	assert.NotSame(t, s, got)

	require.NoError(t, store.Delete(ctx, s.ID))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(20 * time.Millisecond)

	s := conversation.NewSession(conversation.AudienceGuest, nil)
	require.NoError(t, store.Save(ctx, s))
	time.Sleep(40 * time.Millisecond)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_TryLock(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Minute)
	id := uuid.New()

	release, ok, err := store.TryLock(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.TryLock(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok, "second lock must be refused while the first is held")

	release()
	release2, ok, err := store.TryLock(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}
