package clredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyPrefix = "captcha:"
	ttl       = 5 * time.Minute
	opTimeout = 2 * time.Second
)

// RedisStore conserve les réponses CAPTCHA avec expiration, pour que
// plusieurs instances du site partagent les mêmes défis.
type RedisStore struct {
	client *redis.Client
}

func New(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Set(id string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.client.Set(ctx, keyPrefix+id, value, ttl).Err()
}

func (r *RedisStore) Get(id string, clear bool) string {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := keyPrefix + id
	val, err := r.client.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		log.Debug().Err(err).Msg("Lecture CAPTCHA Redis échouée")
	}
	if clear {
		r.client.Del(ctx, key)
	}
	return val
}

func (r *RedisStore) Verify(id, answer string, clear bool) bool {
	return r.Get(id, clear) == answer
}
