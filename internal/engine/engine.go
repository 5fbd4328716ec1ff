// Package engine keeps a job's derived fields consistent with its line
// items. TotalEstimatedTime, Progress and Status are pure functions of the
// job's current items; the engine recomputes and writes all three after
// every item mutation.
package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/example/printshop/api-go/internal/model"
)

// Store is the minimal data access the engine needs. The SQLite store
// satisfies it both directly and transaction-scoped, so a recompute can run
// inside the same transaction as the item write that triggered it.
type Store interface {
	ListItems(ctx context.Context, jobID int64) ([]model.JobItem, error)
	GetJob(ctx context.Context, jobID int64) (model.Job, error)
	WriteJob(ctx context.Context, jobID int64, patch model.JobPatch) error
}

type Engine struct {
	Store Store
}

// TotalTime is the job's estimated minutes: sum of per-unit estimate times
// quantity over all items.
func TotalTime(items []model.JobItem) int {
	total := 0
	for _, it := range items {
		total += it.EstimatedTimePerItem * it.Quantity
	}
	return total
}

// Progress is the percentage of item units completed, rounded half up.
// A job with no units is at 0.
func Progress(items []model.JobItem) int {
	totalUnits := 0
	doneUnits := 0
	for _, it := range items {
		totalUnits += it.Quantity
		doneUnits += it.CompletedQuantity
	}
	if totalUnits <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(doneUnits) / float64(totalUnits)))
}

// StatusForProgress maps progress to a job status. Paused never comes out of
// here; it is only reachable through a direct job update, and the next item
// mutation overwrites it.
func StatusForProgress(progress int) model.JobStatus {
	switch {
	case progress <= 0:
		return model.JobNotStarted
	case progress >= 100:
		return model.JobCompleted
	default:
		return model.JobPrinting
	}
}

// RecomputeTotalTime writes the item-derived time estimate onto the job.
// Returns model.ErrNotFound if the job does not exist.
func (e Engine) RecomputeTotalTime(ctx context.Context, jobID int64) error {
	items, err := e.Store.ListItems(ctx, jobID)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	total := TotalTime(items)
	return e.Store.WriteJob(ctx, jobID, model.JobPatch{TotalEstimatedTime: &total})
}

// RecomputeProgressAndStatus writes the item-derived progress and status
// onto the job, overwriting any manually set status. When the derived status
// transitions the job to completed, CompletedAt is stamped once and kept.
// Returns model.ErrNotFound if the job does not exist.
func (e Engine) RecomputeProgressAndStatus(ctx context.Context, jobID int64) error {
	job, err := e.Store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	items, err := e.Store.ListItems(ctx, jobID)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	progress := Progress(items)
	status := StatusForProgress(progress)
	patch := model.JobPatch{Progress: &progress, Status: &status}
	if status == model.JobCompleted && job.CompletedAt == nil {
		now := time.Now().UTC()
		patch.CompletedAt = &now
	}
	return e.Store.WriteJob(ctx, jobID, patch)
}

// Recompute runs both derivations. Item create, update and delete all go
// through here: a delete changes the unit denominator just like an update
// does, so progress is recomputed on every mutation.
func (e Engine) Recompute(ctx context.Context, jobID int64) error {
	if err := e.RecomputeTotalTime(ctx, jobID); err != nil {
		return err
	}
	return e.RecomputeProgressAndStatus(ctx, jobID)
}

// FormatJobNumber renders the human-facing job number. The sequence is
// monotonic from 1, never reused, and does not reset on year rollover.
func FormatJobNumber(year int, seq int64) string {
	return fmt.Sprintf("%d-%03d", year, seq)
}
