package memstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n-r-w/suspense"
)

func newTestStore(t *testing.T) (*Store[string], *atomic.Int64) {
	t.Helper()

	var fetches atomic.Int64

	s, err := New(16, func(_ context.Context, query string, variables any) (string, error) {
		fetches.Add(1)

		id, _ := variables.(map[string]any)["id"].(string)
		return query + ":" + id, nil
	})
	require.NoError(t, err)

	return s, &fetches
}

func TestStartFetch_WritesStore(t *testing.T) {
	t.Parallel()

	s, fetches := newTestStore(t)
	ctx := context.Background()
	vars := map[string]any{"id": "1"}

	v, err := s.StartFetch(ctx, "GetUser", vars, suspense.NetworkOnly)
	require.NoError(t, err)
	require.Equal(t, "GetUser:1", v)
	require.Equal(t, int64(1), fetches.Load())

	got, ok := s.ReadStoreSync("GetUser", vars)
	require.True(t, ok)
	require.Equal(t, v, got)
	require.Equal(t, 1, s.Len())
}

func TestStartFetch_NoCacheBypassesStore(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	vars := map[string]any{"id": "1"}

	v, err := s.StartFetch(ctx, "GetUser", vars, suspense.NoCache)
	require.NoError(t, err)
	require.Equal(t, "GetUser:1", v)

	_, ok := s.ReadStoreSync("GetUser", vars)
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestStartFetch_Error(t *testing.T) {
	t.Parallel()

	want := errors.New("backend down")

	s, err := New(16, func(context.Context, string, any) (string, error) {
		return "", want
	})
	require.NoError(t, err)

	_, err = s.StartFetch(context.Background(), "Q", nil, suspense.CacheFirst)
	require.ErrorIs(t, err, want)
	require.Equal(t, 0, s.Len())
}

func TestSubscribeStore(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	vars := map[string]any{"id": "1"}

	var got []string
	cancel := s.SubscribeStore("GetUser", vars, func(v string) {
		got = append(got, v)
	})

	// Writes for the subscribed request are delivered; others are not.
	s.Write("GetUser", vars, "v1")
	s.Write("GetUser", map[string]any{"id": "2"}, "other")
	require.Equal(t, []string{"v1"}, got)

	// StartFetch results are delivered like any other write.
	_, err := s.StartFetch(context.Background(), "GetUser", vars, suspense.CacheFirst)
	require.NoError(t, err)
	require.Equal(t, []string{"v1", "GetUser:1"}, got)

	cancel()
	cancel() // idempotent

	s.Write("GetUser", vars, "v2")
	require.Equal(t, []string{"v1", "GetUser:1"}, got)
}

func TestStore_SuspenseIntegration(t *testing.T) {
	t.Parallel()

	s, fetches := newTestStore(t)
	cache := suspense.New[string](s)
	ctx := context.Background()

	b1, err := cache.Bind(ctx, "GetUser", map[string]any{"id": "1"}, suspense.CacheFirst)
	require.NoError(t, err)
	defer b1.Unbind()

	v, err := b1.ReadOrSuspend(ctx)
	require.NoError(t, err)
	require.Equal(t, "GetUser:1", v)
	require.Equal(t, int64(1), fetches.Load())

	// The store is warm now: a second lifecycle never fetches.
	b2, err := cache.Bind(ctx, "GetUser", map[string]any{"id": "1"}, suspense.CacheFirst)
	require.NoError(t, err)
	defer b2.Unbind()

	require.True(t, b2.Settled())
	require.Equal(t, int64(1), fetches.Load())

	// A background write reaches a cache-and-network consumer.
	b3, err := cache.Bind(ctx, "Profile", map[string]any{"id": "7"}, suspense.CacheAndNetwork)
	require.NoError(t, err)
	defer b3.Unbind()

	_, err = b3.ReadOrSuspend(ctx)
	require.NoError(t, err)

	s.Write("Profile", map[string]any{"id": "7"}, "updated")

	v, err = b3.ReadOrSuspend(ctx)
	require.NoError(t, err)
	require.Equal(t, "updated", v)
}
