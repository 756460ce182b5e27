package service

import "errors"

// Configuration errors. These are raised before any store mutation and are
// never retried automatically.
var (
	// ErrInvalidCleanupMode indicates an unrecognized cleanup mode value.
	ErrInvalidCleanupMode = errors.New("vecsync: invalid cleanup mode")

	// ErrMissingSourceKey indicates incremental cleanup was requested without
	// a source key assignment rule.
	ErrMissingSourceKey = errors.New("vecsync: incremental cleanup requires a source key")

	// ErrUnassignedGroup indicates a document resolved to no group under
	// incremental cleanup. Proceeding would silently leave stale vectors or
	// wrongly delete unrelated ones.
	ErrUnassignedGroup = errors.New("vecsync: document resolved to no source group")

	// ErrNoSource indicates Run was called with a zero-value Source.
	ErrNoSource = errors.New("vecsync: no document source provided")
)
