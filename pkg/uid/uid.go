package uid

import "github.com/google/uuid"

// New generates a unique identifier, used for waitlist entry IDs and
// request tracing.
func New() string {
	return uuid.New().String()
}

// IsValid checks if a string is a well-formed identifier.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
