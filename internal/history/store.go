package history

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound    = errors.New("history entry not found")
	ErrInvalidID   = errors.New("invalid history entry ID")
	ErrStoreClosed = errors.New("history store is closed")
)

// DefaultLimit is how many entries are kept when no limit is configured.
const DefaultLimit = 100

// Store defines the interface for history storage operations.
type Store interface {
	// Add adds a new history entry and returns its ID.
	Add(ctx context.Context, entry Entry) (string, error)

	// Get retrieves a single history entry by ID.
	Get(ctx context.Context, id string) (Entry, error)

	// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// Prune deletes all but the newest keepLast entries and reports how many went.
	Prune(ctx context.Context, keepLast int) (int64, error)

	// Clear removes all history entries.
	Clear(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}

// Record adds entry and trims the store to keepLast entries.
func Record(ctx context.Context, store Store, entry Entry, keepLast int) (string, error) {
	if keepLast <= 0 {
		keepLast = DefaultLimit
	}
	id, err := store.Add(ctx, entry)
	if err != nil {
		return "", err
	}
	if _, err := store.Prune(ctx, keepLast); err != nil {
		return id, fmt.Errorf("failed to prune history: %w", err)
	}
	return id, nil
}
