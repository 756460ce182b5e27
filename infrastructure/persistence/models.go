// Package persistence provides the GORM-backed record store: the ledger of
// indexed document uids.
package persistence

import (
	"time"

	"github.com/anchorage-ai/vecsync/domain/ledger"
)

// LedgerModel is the database row for one ledger entry.
type LedgerModel struct {
	UID      string    `gorm:"column:uid;primaryKey"`
	GroupID  string    `gorm:"column:group_id;index"`
	LastSeen time.Time `gorm:"column:last_seen;index"`
}

// TableName returns the ledger table name.
func (LedgerModel) TableName() string { return "vecsync_ledger" }

// LedgerMapper converts LedgerModel rows to domain records.
type LedgerMapper struct{}

// ToDomain converts a model to a domain record.
func (LedgerMapper) ToDomain(model LedgerModel) ledger.Record {
	return ledger.NewRecord(model.UID, model.GroupID, model.LastSeen)
}
