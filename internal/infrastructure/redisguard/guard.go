package redisguard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"walletdash/internal/application"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix  = "walletdash:action:"
	defaultLockTTL = 5 * time.Minute
)

// releaseScript deletes the lock only while it still carries our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Config struct {
	Addr string
	// TTL caps how long a crashed holder can block an account.
	TTL time.Duration
}

// Guard serializes mutating calls per account across processes sharing one
// Redis instance.
type Guard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func New(cfg Config) (*Guard, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewWithClient(client, cfg.TTL), nil
}

func NewWithClient(client redis.UniversalClient, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Guard{client: client, ttl: ttl}
}

func (g *Guard) Close() error {
	return g.client.Close()
}

func (g *Guard) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := lockKeyPrefix + strings.ToLower(key)
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, application.ErrActionInFlight
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, g.client, []string{lockKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				slog.Warn("release action lock failed", "key", lockKey, "err", err)
			}
		})
	}, nil
}
