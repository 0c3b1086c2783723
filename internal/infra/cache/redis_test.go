package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/cache"
)

func newRedis(t *testing.T, ttl time.Duration) (*cache.Redis[domain.UserData], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedis[domain.UserData](context.Background(), "redis://"+mr.Addr(), "session:", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_RoundTripsSnapshot(t *testing.T) {
	c, mr := newRedis(t, time.Minute)
	ctx := context.Background()

	data := domain.UserData{
		Profile: domain.UserProfile{ID: "u1", Status: domain.StatusOnboardingRooms},
		Rooms:   []domain.RoomType{{ID: 7, Name: "Suíte Master", Capacity: 2, DailyRate: 250}},
	}
	require.NoError(t, c.Set(ctx, "u1", data))
	assert.True(t, mr.Exists("session:u1"))

	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusOnboardingRooms, got.Profile.Status)
	require.Len(t, got.Rooms, 1)
	assert.Equal(t, "Suíte Master", got.Rooms[0].Name)
}

func TestRedis_MissAndDelete(t *testing.T) {
	c, _ := newRedis(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "u2", domain.UserData{}))
	require.NoError(t, c.Delete(ctx, "u2"))
	_, ok, err = c.Get(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_EntryExpires(t *testing.T) {
	c, mr := newRedis(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u3", domain.UserData{}))
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx, "u3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedis_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := cache.NewRedis[string](context.Background(), "redis://"+addr, "", time.Minute)
	assert.Error(t, err)
}
