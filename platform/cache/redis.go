package cache

import (
	"context"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

const (
	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

func CreateRedisPool() *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", os.Getenv("REDIS_URL")) },
	}
}

// DialWithRetry waits for Redis to become reachable: a bounded number of
// attempts with a fixed backoff, cancellable through ctx. Used at startup
// instead of an unbounded polling loop.
func DialWithRetry(ctx context.Context) (redis.Conn, error) {
	addr := os.Getenv("REDIS_URL")
	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err := redis.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"max":     dialAttempts,
		}).WithError(err).Warn("redis dial failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	return nil, lastErr
}
