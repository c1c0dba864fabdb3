package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, 10*time.Minute), mr
}

func TestGetMissOnAbsentKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Get(context.Background(), ToppersKey(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, QuestionSetKey(7, "ELEC"), []byte(`{"questions":[]}`), 0))

	got, ok, err := store.Get(ctx, QuestionSetKey(7, "ELEC"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"questions":[]}`), got)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ToppersKey(7), []byte("payload"), time.Second))

	mr.FastForward(2 * time.Second)

	_, ok, err := store.Get(ctx, ToppersKey(7))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDistinctViewsNeverCollide(t *testing.T) {
	assert.NotEqual(t, QuestionSetKey(1, "ELEC"), QuestionSetKey(1, "MECH"))
	assert.NotEqual(t, QuestionSetKey(1, "ELEC"), QuestionSetKey(2, "ELEC"))
	assert.NotEqual(t, QuestionSetKey(1, "ELEC"), ToppersKey(1))
	// Same view, same key.
	assert.Equal(t, ToppersKey(42), ToppersKey(42))
}

func TestGetSurfacesBackendError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, ok, err := store.Get(context.Background(), ToppersKey(1))
	assert.Error(t, err)
	assert.False(t, ok)
}
