package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"main/utils"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimiter counts failed login attempts per client in Redis and
// blocks further attempts once the cap is reached within the window.
type LoginRateLimiter struct {
	Client      *redis.Client
	MaxAttempts int
	Window      time.Duration
}

// GlobalLoginLimiter is nil when Redis is not configured; logins are then
// not rate limited.
var GlobalLoginLimiter *LoginRateLimiter

func NewLoginRateLimiter(redisURL string) (*LoginRateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &LoginRateLimiter{
		Client:      client,
		MaxAttempts: utils.GetEnvAsInt("LOGIN_MAX_ATTEMPTS", 10),
		Window:      utils.GetEnvAsDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
	}, nil
}

// AllowLoginAttempt reports whether another login attempt is permitted for
// the identifier (client IP plus username). Each call counts as an attempt.
func AllowLoginAttempt(identifier string) bool {
	if GlobalLoginLimiter == nil {
		return true
	}
	return GlobalLoginLimiter.allow(identifier)
}

// ResetLoginAttempts clears the attempt counter after a successful login.
func ResetLoginAttempts(identifier string) {
	if GlobalLoginLimiter == nil {
		return
	}
	GlobalLoginLimiter.Client.Del(context.Background(),
		fmt.Sprintf("login_attempts:%s", identifier))
}

func (rl *LoginRateLimiter) allow(identifier string) bool {
	ctx := context.Background()
	key := fmt.Sprintf("login_attempts:%s", identifier)

	count, err := rl.Client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("Error counting login attempts: %v", err)
		return true
	}
	if count == 1 {
		rl.Client.Expire(ctx, key, rl.Window)
	}

	return count <= int64(rl.MaxAttempts)
}

// Close closes the Redis connection
func (rl *LoginRateLimiter) Close() error {
	return rl.Client.Close()
}
