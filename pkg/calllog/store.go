package calllog

import (
	"context"
	"time"
)

// Store persists call records.
type Store interface {
	// Insert appends one record.
	Insert(ctx context.Context, record *Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// PruneBefore deletes records older than cutoff and reports how many.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the store's resources.
	Close() error
}
