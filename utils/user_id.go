package utils

import "github.com/google/uuid"

// GenerateUserID mints a new random user identifier.
func GenerateUserID() string {
	return uuid.New().String()
}
