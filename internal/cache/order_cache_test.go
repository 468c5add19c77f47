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

func newTestCache(t *testing.T) (*RedisOrderCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisOrderCache(client), mr
}

func TestRedisOrderCache_SaveGetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	binding := OrderBinding{
		OrderID:   "order_1",
		UserID:    "u1",
		CourseIDs: []string{"a", "b"},
		Amount:    3000,
		Currency:  "INR",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.Save(ctx, binding, time.Minute))
	assert.True(t, mr.Exists("order_binding:order_1"))

	got, err := c.Get(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, binding.UserID, got.UserID)
	assert.Equal(t, binding.CourseIDs, got.CourseIDs)
	assert.Equal(t, binding.Amount, got.Amount)
	assert.True(t, binding.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, c.Delete(ctx, "order_1"))
	_, err = c.Get(ctx, "order_1")
	assert.ErrorIs(t, err, ErrBindingNotFound)
}

func TestRedisOrderCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, OrderBinding{OrderID: "order_1"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "order_1")
	assert.ErrorIs(t, err, ErrBindingNotFound)
}

func TestRedisOrderCache_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "order_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBindingNotFound)
}

func TestNopOrderCache(t *testing.T) {
	var c OrderCache = NopOrderCache{}
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, OrderBinding{OrderID: "order_1"}, time.Minute))
	_, err := c.Get(ctx, "order_1")
	assert.ErrorIs(t, err, ErrBindingNotFound)
	assert.NoError(t, c.Delete(ctx, "order_1"))
}

func TestOrderBinding_MatchesCourses(t *testing.T) {
	b := &OrderBinding{CourseIDs: []string{"a", "b"}}

	assert.True(t, b.MatchesCourses([]string{"b", "a"}))
	assert.True(t, b.MatchesCourses([]string{"a", "b", "a"}))
	assert.False(t, b.MatchesCourses([]string{"a"}))
	assert.False(t, b.MatchesCourses([]string{"a", "b", "c"}))
	assert.False(t, b.MatchesCourses(nil))
}
