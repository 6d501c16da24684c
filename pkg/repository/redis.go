package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/freshcart/pkg/config"
	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned when no cached session exists for a user.
var ErrSessionNotFound = errors.New("session not found")

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return NewRedisRepositoryWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}), cfg)
}

func NewRedisRepositoryWithClient(client *redis.Client, cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{client: client, config: cfg}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// Session is the ephemeral login record cached for a signed-in user. It is
// never read back to restore a login.
type Session struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

func (r *RedisRepository) SaveSession(ctx context.Context, userID, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.config.SessionTTL
	}
	s := &Session{UserID: userID, Token: token, CreatedAt: time.Now()}
	if err := r.SetJSON(ctx, sessionKey(userID), s, ttl); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

func (r *RedisRepository) GetSession(ctx context.Context, userID string) (*Session, error) {
	var s Session
	err := r.GetJSON(ctx, sessionKey(userID), &s)
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *RedisRepository) DropSession(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKey(userID)).Err()
}

// Publish sends payload as JSON on the configured event channel.
func (r *RedisRepository) Publish(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.config.Channel, data).Err()
}

// Subscribe returns a subscription on the configured event channel.
func (r *RedisRepository) Subscribe(ctx context.Context) *redis.PubSub {
	return r.client.Subscribe(ctx, r.config.Channel)
}
