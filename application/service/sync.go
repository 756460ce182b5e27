// Package service provides the index synchronization engine: the driver
// that reconciles a batch of loaded documents against previously-indexed
// state across a vector store and a record store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anchorage-ai/vecsync/domain/document"
	"github.com/anchorage-ai/vecsync/domain/ledger"
	"github.com/anchorage-ai/vecsync/domain/vector"
	"github.com/anchorage-ai/vecsync/internal/log"
)

// Default batch sizes.
const (
	DefaultBatchSize       = 100
	DefaultDeleteBatchSize = 1000
)

// SyncParams configures a synchronization run.
type SyncParams struct {
	// BatchSize is the number of documents processed per round-trip to the
	// stores. Defaults to DefaultBatchSize.
	BatchSize int

	// Cleanup selects the deletion policy. Defaults to CleanupNone.
	Cleanup CleanupMode

	// DeleteBatchSize caps the keys deleted per round-trip during the full
	// sweep. Defaults to DefaultDeleteBatchSize.
	DeleteBatchSize int

	// ForceUpdate re-writes every document to the vector store even when its
	// uid is already in the ledger. Used to force embedding regeneration
	// after a model change; last_seen is refreshed either way.
	ForceUpdate bool

	// SourceKey assigns each document's group id. Required for
	// CleanupIncremental, optional otherwise.
	SourceKey document.SourceKey
}

// Result summarizes a synchronization run.
type Result struct {
	// Added is the number of documents written to the vector store.
	Added int

	// Skipped is the number of documents whose uid was already indexed and
	// whose ledger entry was only refreshed.
	Skipped int

	// Deleted is the number of stale uids removed from both stores.
	Deleted int
}

// Sync reconciles document sources against the vector store and the record
// ledger. A run is sequential across and within batches: the existence
// check, the vector write, the ledger update, and any incremental deletion
// are ordered round-trips, because staleness comparisons depend on ledger
// state mutated by earlier steps.
//
// Sync assumes conceptual ownership of the uid namespace it writes but not
// exclusive access to the stores; unrelated concurrent writers are fine.
// Two concurrent runs over the same group with different content are not,
// and callers must serialize those themselves.
type Sync struct {
	records ledger.RecordStore
	vectors vector.Store
	logger  *slog.Logger
}

// NewSync creates a Sync over the given store handles.
func NewSync(records ledger.RecordStore, vectors vector.Store, logger *slog.Logger) *Sync {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sync{
		records: records,
		vectors: vectors,
		logger:  logger,
	}
}

// Run synchronizes the source into the stores and returns the run summary.
//
// Configuration problems (invalid cleanup mode, missing source key, a
// document with no group under incremental cleanup) surface before the
// offending batch mutates anything. Loader and store errors abort the run
// immediately; there is no retry or rollback inside the engine. Because
// uids are content-derived and writes idempotent, re-running after any
// abort is safe and converges to the same end state.
func (s *Sync) Run(ctx context.Context, source Source, params SyncParams) (Result, error) {
	params, err := normalizeParams(params)
	if err != nil {
		return Result{}, err
	}

	docs, err := source.resolve(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSource) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("load documents: %w", err)
	}

	// One reference timestamp from the store itself, stamped before any
	// batch. All ledger writes use it as the floor and all staleness
	// comparisons compare against it, so the engine is immune to clock skew
	// between process and store and between repeated runs.
	refTime, err := s.records.Now(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch reference timestamp: %w", err)
	}

	// Reuse a caller-supplied run ID so CLI and engine log lines correlate.
	runID := log.RunID(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	started := time.Now()
	s.logger.Debug("sync run started",
		slog.String("run_id", runID),
		slog.Int("documents", len(docs)),
		slog.String("cleanup", string(params.Cleanup)),
	)

	var result Result
	for start := 0; start < len(docs); start += params.BatchSize {
		end := min(start+params.BatchSize, len(docs))

		added, skipped, deleted, err := s.processBatch(ctx, docs[start:end], refTime, params)
		if err != nil {
			return result, err
		}
		result.Added += added
		result.Skipped += skipped
		result.Deleted += deleted

		s.logger.Debug("batch synchronized",
			slog.String("run_id", runID),
			slog.Int("added", added),
			slog.Int("skipped", skipped),
			slog.Int("deleted", deleted),
		)
	}

	if params.Cleanup == CleanupFull {
		deleted, err := s.sweep(ctx, refTime, params.DeleteBatchSize)
		result.Deleted += deleted
		if err != nil {
			return result, err
		}
	}

	s.logger.Info("sync run finished",
		slog.String("run_id", runID),
		slog.Int("added", result.Added),
		slog.Int("skipped", result.Skipped),
		slog.Int("deleted", result.Deleted),
		slog.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// normalizeParams applies defaults and rejects invalid configuration.
func normalizeParams(params SyncParams) (SyncParams, error) {
	if params.Cleanup == "" {
		params.Cleanup = CleanupNone
	}
	if !params.Cleanup.Valid() {
		return params, fmt.Errorf("%w: %q", ErrInvalidCleanupMode, string(params.Cleanup))
	}
	if params.Cleanup == CleanupIncremental && params.SourceKey.IsZero() {
		return params, ErrMissingSourceKey
	}
	if params.BatchSize <= 0 {
		params.BatchSize = DefaultBatchSize
	}
	if params.DeleteBatchSize <= 0 {
		params.DeleteBatchSize = DefaultDeleteBatchSize
	}
	return params, nil
}

// processBatch runs one batch through fingerprint, dedupe, group
// resolution, existence check, vector write, ledger update, and (under
// incremental cleanup) per-group stale deletion.
func (s *Sync) processBatch(
	ctx context.Context,
	batch []document.Document,
	refTime time.Time,
	params SyncParams,
) (added, skipped, deleted int, err error) {
	fps := document.Dedupe(document.FingerprintAll(batch))
	if len(fps) == 0 {
		return 0, 0, 0, nil
	}

	uids := make([]string, len(fps))
	groups := make([]string, len(fps))
	for i, fp := range fps {
		uids[i] = fp.UID()
		groups[i] = params.SourceKey.Resolve(fp.Document())
		if params.Cleanup == CleanupIncremental && groups[i] == "" {
			return 0, 0, 0, fmt.Errorf("%w: source %q", ErrUnassignedGroup, fp.Document().Source())
		}
	}

	exists, err := s.records.Exists(ctx, uids)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("check ledger existence: %w", err)
	}
	if len(exists) != len(uids) {
		return 0, 0, 0, fmt.Errorf("record store returned %d existence flags for %d uids", len(exists), len(uids))
	}

	var writeDocs []document.Document
	var writeIDs []string
	for i, fp := range fps {
		if exists[i] && !params.ForceUpdate {
			skipped++
			continue
		}
		writeDocs = append(writeDocs, fp.Document())
		writeIDs = append(writeIDs, fp.UID())
	}

	// Vector store before ledger: a crash between the two leaves an
	// orphaned-but-harmless vector that the next idempotent run repairs,
	// never a ledger entry pointing at a vector that was never written.
	if len(writeIDs) > 0 {
		if err := s.vectors.AddDocuments(ctx, writeDocs, writeIDs); err != nil {
			return 0, skipped, 0, fmt.Errorf("write vector store: %w", err)
		}
		added = len(writeIDs)
	}

	if err := s.records.Update(ctx, uids, groups, refTime); err != nil {
		return added, skipped, 0, fmt.Errorf("update ledger: %w", err)
	}

	if params.Cleanup == CleanupIncremental {
		deleted, err = s.settleGroups(ctx, groups, refTime)
		if err != nil {
			return added, skipped, deleted, err
		}
	}
	return added, skipped, deleted, nil
}

// settleGroups deletes every uid in the touched groups whose last_seen
// predates the run's reference timestamp: members from a prior run that
// were not re-supplied in this one.
func (s *Sync) settleGroups(ctx context.Context, groups []string, refTime time.Time) (int, error) {
	touched := make([]string, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		touched = append(touched, g)
	}

	stale, err := s.records.ListKeys(ctx, ledger.ListFilter{
		GroupIDs: touched,
		Before:   refTime,
	})
	if err != nil {
		return 0, fmt.Errorf("list stale group members: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.deleteBoth(ctx, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// sweep pages through the whole ledger deleting anything older than the
// reference timestamp, deleteBatchSize keys per round-trip, until the store
// reports none remaining.
func (s *Sync) sweep(ctx context.Context, refTime time.Time, deleteBatchSize int) (int, error) {
	deleted := 0
	for {
		stale, err := s.records.ListKeys(ctx, ledger.ListFilter{
			Before: refTime,
			Limit:  deleteBatchSize,
		})
		if err != nil {
			return deleted, fmt.Errorf("list stale keys: %w", err)
		}
		if len(stale) == 0 {
			return deleted, nil
		}

		if err := s.deleteBoth(ctx, stale); err != nil {
			return deleted, err
		}
		deleted += len(stale)

		if len(stale) < deleteBatchSize {
			return deleted, nil
		}
	}
}

// deleteBoth removes uids from the vector store first, then the ledger.
// Mirrors the ingestion ordering: an interrupted delete leaves a ledger
// entry whose vector is gone, which the next run's staleness pass retries,
// never a vector the ledger no longer knows about.
func (s *Sync) deleteBoth(ctx context.Context, uids []string) error {
	if err := s.vectors.Delete(ctx, uids); err != nil {
		return fmt.Errorf("delete from vector store: %w", err)
	}
	if err := s.records.DeleteKeys(ctx, uids); err != nil {
		return fmt.Errorf("delete from ledger: %w", err)
	}
	return nil
}
