package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "token", "a"))
	v, _ = s.Get(ctx, "token")
	assert.Equal(t, "a", v)

	require.NoError(t, s.Delete(ctx, "token"))
	v, _ = s.Get(ctx, "token")
	assert.Empty(t, v)
}

func TestStore_ApplyIsAllOrNothingForReaders(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "refresh_token", "r"))

	require.NoError(t, s.Apply(ctx, map[string]string{"token": "a2"}, []string{"refresh_token"}))

	a, _ := s.Get(ctx, "token")
	r, _ := s.Get(ctx, "refresh_token")
	assert.Equal(t, "a2", a)
	assert.Empty(t, r)
}

func TestStore_SubscribeNotifiesOnChangeOnly(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "token"))
	select {
	case <-events:
		t.Fatal("deleting a missing key is not a change")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, s.Set(ctx, "token", "a"))
	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("expected notification")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, time.Second, 5*time.Millisecond)
}
