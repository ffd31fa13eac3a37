package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"planward/utils"
)

const tokenIssuer = "planward"

// GenerateToken issues a short-lived access token for the user.
func GenerateToken(userID string) (string, error) {
	return signToken(userID, "access", time.Duration(utils.JWTExpirationTime)*time.Second)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func GenerateRefreshToken(userID string) (string, error) {
	return signToken(userID, "refresh", time.Duration(utils.RefreshTokenExpirationTime)*time.Second)
}

func signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"iss":     tokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ValidateRefreshToken checks a refresh token and returns the user ID it was
// issued for.
func ValidateRefreshToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("token has expired")
		}
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", errors.New("invalid token type")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid claims")
	}
	return userID, nil
}
