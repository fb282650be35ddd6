package domain

import "github.com/google/uuid"

// NewRunID generates a UUIDv7 string labelling one pipeline run.
// UUIDv7 sorts by creation time, so run logs order naturally.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
