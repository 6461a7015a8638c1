package utils

import "github.com/google/uuid"

// GenerateUserID returns a new random identifier for a user record.
func GenerateUserID() string {
	return uuid.New().String()
}

// GenerateSessionID returns a new random identifier for a session record.
func GenerateSessionID() string {
	return uuid.New().String()
}
