package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"main/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps active session records in Redis so the session
// middleware does not hit MongoDB on every request.
type SessionCache struct {
	client *redis.Client
}

// GlobalSessionCache is nil when Redis is not configured; callers fall back
// to the session collection.
var GlobalSessionCache *SessionCache

func NewSessionCache(redisURL string) (*SessionCache, error) {
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

	return &SessionCache{client: client}, nil
}

// SetSession caches a session with a TTL matching its expiry.
func (sc *SessionCache) SetSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	key := fmt.Sprintf("session:%s", session.SessionID)
	if err := sc.client.Set(context.Background(), key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %v", err)
	}

	return nil
}

// GetSession retrieves a session from cache; (nil, nil) on a miss.
func (sc *SessionCache) GetSession(sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", sessionID)

	data, err := sc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %v", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	if time.Now().After(session.ExpiresAt) {
		sc.DeleteSession(sessionID)
		return nil, nil
	}

	return &session, nil
}

// DeleteSession evicts a single session from the cache.
func (sc *SessionCache) DeleteSession(sessionID string) {
	sc.client.Del(context.Background(), fmt.Sprintf("session:%s", sessionID))
}

// DeleteUserSessions evicts every cached session belonging to the user.
func (sc *SessionCache) DeleteUserSessions(userID string) {
	ctx := context.Background()

	var cursor uint64
	for {
		keys, newCursor, err := sc.client.Scan(ctx, cursor, "session:*", 100).Result()
		if err != nil {
			return
		}

		for _, key := range keys {
			data, err := sc.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var session model.Session
			if err := json.Unmarshal(data, &session); err != nil {
				continue
			}
			if session.UserID == userID {
				sc.client.Del(ctx, key)
			}
		}

		cursor = newCursor
		if cursor == 0 {
			return
		}
	}
}

// IsConnected checks if the Redis connection is alive
func (sc *SessionCache) IsConnected() bool {
	if sc == nil || sc.client == nil {
		return false
	}
	return sc.client.Ping(context.Background()).Err() == nil
}

// Close closes the Redis connection
func (sc *SessionCache) Close() error {
	return sc.client.Close()
}
