// Package ledger defines the record store contract: the metadata ledger
// tracking which document uids are currently indexed, when they were last
// seen, and which source group they belong to.
package ledger

import "time"

// Record is one ledger entry per uid ever seen. Records are mutated only via
// RecordStore.Update and deleted exactly when the engine determines the
// corresponding content is no longer part of the current source set.
type Record struct {
	uid      string
	groupID  string
	lastSeen time.Time
}

// NewRecord creates a Record.
func NewRecord(uid, groupID string, lastSeen time.Time) Record {
	return Record{
		uid:      uid,
		groupID:  groupID,
		lastSeen: lastSeen,
	}
}

// UID returns the content-derived document identifier.
func (r Record) UID() string { return r.uid }

// GroupID returns the source group the uid currently belongs to, or "".
func (r Record) GroupID() string { return r.groupID }

// LastSeen returns the timestamp of the last run that supplied this uid.
func (r Record) LastSeen() time.Time { return r.lastSeen }
