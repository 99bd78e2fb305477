package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() {
		SetClient(nil)
		mr.Close()
	})
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return mr
}

func TestAsideFetchesOnMissAndServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetchCalls := 0
	var got cachedUser
	err := Aside(ctx, UserKey(1), &got, UserTTL, func() error {
		fetchCalls++
		got = cachedUser{ID: 1, Username: "alice"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "alice", got.Username)

	// Second read is a cache hit; fetch must not run again.
	var again cachedUser
	err = Aside(ctx, UserKey(1), &again, UserTTL, func() error {
		fetchCalls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "alice", again.Username)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	setupMiniredis(t)

	var got cachedUser
	fetchErr := errors.New("db down")
	err := Aside(context.Background(), UserKey(2), &got, UserTTL, func() error {
		return fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
}

func TestInvalidateUserRemovesKeys(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedUser{ID: 3, Username: "bob"}, UserTTL))
	require.True(t, mr.Exists(UserKey(3)))

	InvalidateUser(ctx, 3)
	assert.False(t, mr.Exists(UserKey(3)))
}

func TestAsideWithoutClientFallsThrough(t *testing.T) {
	SetClient(nil)

	fetchCalls := 0
	var got cachedUser
	err := Aside(context.Background(), UserKey(4), &got, UserTTL, func() error {
		fetchCalls++
		got = cachedUser{ID: 4, Username: "carol"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "carol", got.Username)
}
