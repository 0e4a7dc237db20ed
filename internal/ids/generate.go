package ids

import "github.com/google/uuid"

// New returns a random UUID string. uuid formats in lowercase hex.
func New() string {
	return uuid.NewString()
}

// Valid reports whether id parses as a UUID.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
