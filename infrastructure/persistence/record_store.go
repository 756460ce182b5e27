package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anchorage-ai/vecsync/domain/ledger"
	"github.com/anchorage-ai/vecsync/internal/database"
)

// RecordStore implements ledger.RecordStore using GORM, against SQLite or
// PostgreSQL.
type RecordStore struct {
	db     database.Database
	mapper LedgerMapper
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db database.Database) RecordStore {
	return RecordStore{
		db:     db,
		mapper: LedgerMapper{},
	}
}

// Now returns the database server's clock, in UTC. Reading the store's own
// clock keeps staleness comparisons immune to skew between the engine
// process and the store.
func (s RecordStore) Now(ctx context.Context) (time.Time, error) {
	if s.db.IsPostgres() {
		var now time.Time
		if err := s.db.Session(ctx).Raw("SELECT now()").Scan(&now).Error; err != nil {
			return time.Time{}, fmt.Errorf("read store clock: %w", err)
		}
		return now.UTC(), nil
	}

	// SQLite has no timestamp type; strftime with %f keeps millisecond
	// precision, which time.Time comparisons against stored rows need.
	var raw string
	if err := s.db.Session(ctx).Raw(`SELECT strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`).Scan(&raw).Error; err != nil {
		return time.Time{}, fmt.Errorf("read store clock: %w", err)
	}
	now, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse store clock %q: %w", raw, err)
	}
	return now.UTC(), nil
}

// Exists reports, in input order, whether each uid has a ledger entry.
func (s RecordStore) Exists(ctx context.Context, uids []string) ([]bool, error) {
	if len(uids) == 0 {
		return []bool{}, nil
	}

	var found []string
	err := s.db.Session(ctx).
		Model(&LedgerModel{}).
		Where("uid IN ?", uids).
		Pluck("uid", &found).Error
	if err != nil {
		return nil, fmt.Errorf("check ledger uids: %w", err)
	}

	present := make(map[string]struct{}, len(found))
	for _, uid := range found {
		present[uid] = struct{}{}
	}

	out := make([]bool, len(uids))
	for i, uid := range uids {
		_, out[i] = present[uid]
	}
	return out, nil
}

// Update upserts one entry per uid. New uids are created with last_seen =
// atLeast; existing uids get their group refreshed and last_seen raised to
// at least atLeast, never lowered.
func (s RecordStore) Update(ctx context.Context, uids []string, groupIDs []string, atLeast time.Time) error {
	if len(uids) == 0 {
		return nil
	}
	if len(groupIDs) != len(uids) {
		return fmt.Errorf("update ledger: %d group ids for %d uids", len(groupIDs), len(uids))
	}

	models := make([]LedgerModel, len(uids))
	for i, uid := range uids {
		models[i] = LedgerModel{
			UID:      uid,
			GroupID:  groupIDs[i],
			LastSeen: atLeast.UTC(),
		}
	}

	// GREATEST has no two-argument SQLite counterpart; scalar MAX does the
	// same job there.
	floorExpr := "GREATEST(last_seen, excluded.last_seen)"
	if s.db.IsSQLite() {
		floorExpr = "MAX(last_seen, excluded.last_seen)"
	}

	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.Assignments(map[string]any{
			"group_id":  gorm.Expr("excluded.group_id"),
			"last_seen": gorm.Expr(floorExpr),
		}),
	}).Create(&models).Error
	if err != nil {
		return fmt.Errorf("update ledger: %w", err)
	}
	return nil
}

// ListKeys returns uids matching the filter, ordered by uid for
// deterministic paging.
func (s RecordStore) ListKeys(ctx context.Context, filter ledger.ListFilter) ([]string, error) {
	db := s.db.Session(ctx).Model(&LedgerModel{})

	if len(filter.GroupIDs) > 0 {
		db = db.Where("group_id IN ?", filter.GroupIDs)
	}
	if !filter.Before.IsZero() {
		db = db.Where("last_seen < ?", filter.Before.UTC())
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}

	var uids []string
	if err := db.Order("uid").Pluck("uid", &uids).Error; err != nil {
		return nil, fmt.Errorf("list ledger keys: %w", err)
	}
	return uids, nil
}

// DeleteKeys removes the ledger entries for the given uids.
func (s RecordStore) DeleteKeys(ctx context.Context, uids []string) error {
	if len(uids) == 0 {
		return nil
	}
	err := s.db.Session(ctx).Where("uid IN ?", uids).Delete(&LedgerModel{}).Error
	if err != nil {
		return fmt.Errorf("delete ledger keys: %w", err)
	}
	return nil
}

// Records returns full ledger entries for the given uids, for inspection
// tooling. Missing uids are silently absent from the result.
func (s RecordStore) Records(ctx context.Context, uids []string) ([]ledger.Record, error) {
	if len(uids) == 0 {
		return []ledger.Record{}, nil
	}

	var models []LedgerModel
	err := s.db.Session(ctx).Where("uid IN ?", uids).Order("uid").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("load ledger records: %w", err)
	}

	records := make([]ledger.Record, len(models))
	for i, m := range models {
		records[i] = s.mapper.ToDomain(m)
	}
	return records, nil
}
