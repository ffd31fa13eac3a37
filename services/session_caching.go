package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"planward/model"
)

// SessionCache keeps sessions in Redis in front of the Mongo session
// collection: one TTL'd key per session plus a short-lived per-user list.
type SessionCache struct {
	client    *redis.Client
	cacheLock sync.RWMutex
}

type sessionListEntry struct {
	Sessions  []*model.Session `json:"sessions"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// GlobalSessionCache is set up in main; nil means cache misses everywhere,
// which the repository treats as "go to Mongo".
var GlobalSessionCache *SessionCache

const userSessionsTTL = 5 * time.Minute

// NewSessionCache connects to Redis and verifies the connection.
func NewSessionCache(redisURL string) (*SessionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SessionCache{client: client}, nil
}

// SetSession caches one session with a TTL matching its expiry.
func (sc *SessionCache) SetSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	sc.cacheLock.Lock()
	defer sc.cacheLock.Unlock()

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session has already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := fmt.Sprintf("session:%s", session.SessionID)
	if err := sc.client.Set(context.Background(), key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// GetSession returns a cached session, or (nil, nil) on a miss or when the
// cached entry turned out to be expired.
func (sc *SessionCache) GetSession(sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	sc.cacheLock.RLock()
	defer sc.cacheLock.RUnlock()

	ctx := context.Background()
	data, err := sc.client.Get(ctx, fmt.Sprintf("session:%s", sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		sc.DeleteSession(sessionID)
		return nil, nil
	}
	return &session, nil
}

// CacheUserSessions stores a user's active session list for a few minutes.
func (sc *SessionCache) CacheUserSessions(userID string, sessions []*model.Session) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	sc.cacheLock.Lock()
	defer sc.cacheLock.Unlock()

	entry := sessionListEntry{Sessions: sessions, UpdatedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	key := fmt.Sprintf("user_sessions:%s", userID)
	if err := sc.client.Set(context.Background(), key, data, userSessionsTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache user sessions: %w", err)
	}
	return nil
}

// GetUserSessions returns the cached session list; ok is false on a miss.
func (sc *SessionCache) GetUserSessions(userID string) ([]*model.Session, bool, error) {
	if userID == "" {
		return nil, false, fmt.Errorf("userID cannot be empty")
	}

	sc.cacheLock.RLock()
	defer sc.cacheLock.RUnlock()

	data, err := sc.client.Get(context.Background(), fmt.Sprintf("user_sessions:%s", userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user sessions from cache: %w", err)
	}

	var entry sessionListEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal sessions: %w", err)
	}
	return entry.Sessions, true, nil
}

// DeleteSession drops one session key from the cache.
func (sc *SessionCache) DeleteSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}
	key := fmt.Sprintf("session:%s", sessionID)
	if err := sc.client.Del(context.Background(), key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}
	return nil
}

// InvalidateUserSessions drops the per-user list so the next read refills
// from Mongo.
func (sc *SessionCache) InvalidateUserSessions(userID string) error {
	key := fmt.Sprintf("user_sessions:%s", userID)
	if err := sc.client.Del(context.Background(), key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user sessions: %w", err)
	}
	return nil
}

// StartCleanupTask scans for session keys whose payload has expired but
// whose TTL outlived them (clock drift, rewritten expiries).
func (sc *SessionCache) StartCleanupTask() {
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		for range ticker.C {
			if err := sc.cleanupExpiredSessions(); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()
}

func (sc *SessionCache) cleanupExpiredSessions() error {
	ctx := context.Background()

	var cursor uint64
	for {
		keys, next, err := sc.client.Scan(ctx, cursor, "session:*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
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
			if time.Now().After(session.ExpiresAt) {
				sc.client.Del(ctx, key)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// IsConnected reports whether the Redis connection is alive.
func (sc *SessionCache) IsConnected() bool {
	if sc == nil || sc.client == nil {
		return false
	}
	return sc.client.Ping(context.Background()).Err() == nil
}

// Close closes the Redis connection.
func (sc *SessionCache) Close() error {
	return sc.client.Close()
}
