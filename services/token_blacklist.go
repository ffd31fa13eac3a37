package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"planward/utils"
)

// RedisTokenBlacklist invalidates issued tokens on logout. Keys expire when
// the token itself would, so Redis does the cleanup.
type RedisTokenBlacklist struct {
	Client *redis.Client
}

// TokenBlacklist is the global instance, set up in main. When nil (e.g. in
// tests without Redis) nothing is ever considered blacklisted.
var TokenBlacklist *RedisTokenBlacklist

// NewTokenBlacklist connects to Redis and verifies the connection.
func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
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

	return &RedisTokenBlacklist{Client: client}, nil
}

// BlacklistTokens adds the access and refresh token to the blacklist. Empty
// strings are skipped so callers holding only one of the pair can still
// invalidate it.
func BlacklistTokens(accessToken, refreshToken string) error {
	if TokenBlacklist == nil {
		return fmt.Errorf("token blacklist not initialized")
	}
	if accessToken != "" {
		if err := TokenBlacklist.blacklistSingleToken(accessToken, "access"); err != nil {
			return fmt.Errorf("failed to blacklist access token: %w", err)
		}
	}
	if refreshToken != "" {
		if err := TokenBlacklist.blacklistSingleToken(refreshToken, "refresh"); err != nil {
			return fmt.Errorf("failed to blacklist refresh token: %w", err)
		}
	}
	return nil
}

func (tb *RedisTokenBlacklist) blacklistSingleToken(tokenString, tokenType string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(utils.JWTSecretKey), nil
	})
	// An expired token still parses (invalid but non-nil) and needs no
	// blacklist entry; only a token we cannot read at all is an error.
	if err != nil && token == nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	if token != nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expirationTime = time.Unix(int64(exp), 0)
			}
		}
	}

	ttl := time.Until(expirationTime)
	if ttl <= 0 {
		return nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("blacklist:%s:%s", tokenType, tokenString)
	if err := tb.Client.Set(ctx, key, "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %w", err)
	}
	return nil
}

// IsTokenBlacklisted checks both the access and refresh blacklists in one
// round trip.
func IsTokenBlacklisted(tokenString string) bool {
	if TokenBlacklist == nil {
		return false
	}
	tb := TokenBlacklist

	ctx := context.Background()
	pipe := tb.Client.Pipeline()
	accessCmd := pipe.Exists(ctx, fmt.Sprintf("blacklist:access:%s", tokenString))
	refreshCmd := pipe.Exists(ctx, fmt.Sprintf("blacklist:refresh:%s", tokenString))
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error checking token blacklist: %v", err)
		return false
	}
	return accessCmd.Val() > 0 || refreshCmd.Val() > 0
}

// Close closes the Redis connection.
func (tb *RedisTokenBlacklist) Close() error {
	return tb.Client.Close()
}
