package ledger

import (
	"context"
	"time"
)

// ListFilter narrows RecordStore.ListKeys. Zero fields are ignored.
type ListFilter struct {
	// GroupIDs restricts results to uids currently assigned to any of the
	// given groups.
	GroupIDs []string

	// Before restricts results to uids whose last_seen is strictly earlier.
	Before time.Time

	// Limit caps the number of returned uids (0 means no cap).
	Limit int
}

// RecordStore is the contract for the external metadata ledger. The engine
// consumes this interface; implementations live in infrastructure.
type RecordStore interface {
	// Now returns the store's own clock. Synchronization runs stamp one
	// reference timestamp from the store rather than the local clock so that
	// staleness comparisons are immune to clock skew between the engine and
	// the store.
	Now(ctx context.Context) (time.Time, error)

	// Exists reports, in input order, whether each uid has a ledger entry.
	Exists(ctx context.Context, uids []string) ([]bool, error)

	// Update upserts one entry per uid: created if absent, otherwise the
	// group id is refreshed and last_seen is raised to at least atLeast.
	// last_seen never moves backward. groupIDs must have the same length as
	// uids; "" records no group.
	Update(ctx context.Context, uids []string, groupIDs []string, atLeast time.Time) error

	// ListKeys returns uids matching the filter.
	ListKeys(ctx context.Context, filter ListFilter) ([]string, error)

	// DeleteKeys removes the ledger entries for the given uids. Unknown uids
	// are ignored.
	DeleteKeys(ctx context.Context, uids []string) error
}
