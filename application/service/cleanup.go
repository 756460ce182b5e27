package service

import "fmt"

// CleanupMode selects the deletion policy for a synchronization run. The
// mode is fixed for the whole run; the two deleting modes never mix:
// incremental settles each touched group right after its batch and never
// performs the global sweep, full ignores groups and sweeps the entire
// ledger once after all batches.
type CleanupMode string

// CleanupMode values.
const (
	// CleanupNone performs no deletion; the run only adds and refreshes.
	CleanupNone CleanupMode = "none"

	// CleanupIncremental deletes stale members of each touched group
	// immediately after that group's batch. Requires every document to
	// resolve to a source group.
	CleanupIncremental CleanupMode = "incremental"

	// CleanupFull defers all deletion to a final sweep across the whole
	// ledger after the last batch.
	CleanupFull CleanupMode = "full"
)

// ParseCleanupMode validates a mode string. The empty string parses to
// CleanupNone.
func ParseCleanupMode(s string) (CleanupMode, error) {
	switch CleanupMode(s) {
	case CleanupNone, "":
		return CleanupNone, nil
	case CleanupIncremental:
		return CleanupIncremental, nil
	case CleanupFull:
		return CleanupFull, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCleanupMode, s)
	}
}

// Valid reports whether the mode is one of the defined values.
func (m CleanupMode) Valid() bool {
	switch m {
	case CleanupNone, CleanupIncremental, CleanupFull:
		return true
	default:
		return false
	}
}
