package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "renalward:lock:"

// releaseScript deletes the key only if it still holds our token, so a
// holder whose lock expired cannot release someone else's.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Redis implements Locker with SET NX PX and a token-checked delete.
type Redis struct {
	client redisClient
	ttl    time.Duration
}

// NewRedis connects to url (redis://host:port/db) and verifies it with PING.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, *redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, client, nil
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	full := keyPrefix + key

	ok, err := r.client.SetNX(ctx, full, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", full, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	log := zerolog.Ctx(ctx)
	return func() {
		// Detached from the request so a cancelled request still releases.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.client.Eval(ctx, releaseScript, []string{full}, token).Err(); err != nil {
			log.Warn().Err(err).Str("lock_key", full).Dur("ttl", r.ttl).
				Msg("release lock failed; key expires with its ttl")
		}
	}, nil
}
