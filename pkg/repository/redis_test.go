package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/freshcart/pkg/config"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := &config.RedisConfig{Addr: mr.Addr(), Channel: "orders:events", SessionTTL: time.Hour}
	repo := NewRedisRepositoryWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), cfg)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRedis(t)

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.SaveSession(ctx, "1", "tok", 0))

	s, err := repo.GetSession(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, time.Hour, mr.TTL("session:1"))

	require.NoError(t, repo.DropSession(ctx, "1"))
	_, err = repo.GetSession(ctx, "1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRedis(t)

	require.NoError(t, repo.SaveSession(ctx, "2", "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.GetSession(ctx, "2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRedis(t)

	sub := repo.Subscribe(ctx)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Publish(ctx, map[string]string{"order_id": "ORD001"}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "orders:events", msg.Channel)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "ORD001", got["order_id"])
}
