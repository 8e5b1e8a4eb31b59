package secondary

import "errors"

// Sentinel errors shared by all repository implementations. Adapters wrap
// these with entity context (fmt.Errorf("ticket %s: %w", id, ErrNotFound))
// so callers can test with errors.Is while still getting a useful message.
var (
	// ErrNotFound indicates an operation referenced an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForeignKey indicates a write referenced a nonexistent parent row.
	ErrForeignKey = errors.New("parent does not exist")
)
