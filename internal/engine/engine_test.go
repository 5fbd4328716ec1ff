package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/printshop/api-go/internal/model"
)

// fakeStore implements Store over plain maps.
type fakeStore struct {
	jobs  map[int64]model.Job
	items map[int64][]model.JobItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:  make(map[int64]model.Job),
		items: make(map[int64][]model.JobItem),
	}
}

func (f *fakeStore) ListItems(_ context.Context, jobID int64) ([]model.JobItem, error) {
	return f.items[jobID], nil
}

func (f *fakeStore) GetJob(_ context.Context, jobID int64) (model.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return model.Job{}, model.ErrNotFound
	}
	return job, nil
}

func (f *fakeStore) WriteJob(_ context.Context, jobID int64, patch model.JobPatch) error {
	job, ok := f.jobs[jobID]
	if !ok {
		return model.ErrNotFound
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.TotalEstimatedTime != nil {
		job.TotalEstimatedTime = *patch.TotalEstimatedTime
	}
	if patch.Progress != nil {
		job.Progress = *patch.Progress
	}
	if patch.CompletedAt != nil {
		job.CompletedAt = patch.CompletedAt
	}
	f.jobs[jobID] = job
	return nil
}

func item(qty, perItem, done int) model.JobItem {
	return model.JobItem{Quantity: qty, EstimatedTimePerItem: perItem, CompletedQuantity: done}
}

func TestTotalTime(t *testing.T) {
	assert.Equal(t, 0, TotalTime(nil))
	assert.Equal(t, 45, TotalTime([]model.JobItem{item(4, 10, 0), item(1, 5, 0)}))
	assert.Equal(t, 0, TotalTime([]model.JobItem{item(3, 0, 0)}))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(nil), "no items means zero progress, not a division by zero")
	assert.Equal(t, 0, Progress([]model.JobItem{item(4, 10, 0), item(1, 5, 0)}))
	assert.Equal(t, 80, Progress([]model.JobItem{item(4, 10, 4), item(1, 5, 0)}))
	assert.Equal(t, 100, Progress([]model.JobItem{item(4, 10, 4), item(1, 5, 1)}))

	// round half up: 1/8 done is 12.5%
	assert.Equal(t, 13, Progress([]model.JobItem{item(8, 1, 1)}))
	assert.Equal(t, 33, Progress([]model.JobItem{item(3, 1, 1)}))
	assert.Equal(t, 67, Progress([]model.JobItem{item(3, 1, 2)}))
}

func TestStatusForProgress(t *testing.T) {
	assert.Equal(t, model.JobNotStarted, StatusForProgress(0))
	assert.Equal(t, model.JobPrinting, StatusForProgress(1))
	assert.Equal(t, model.JobPrinting, StatusForProgress(99))
	assert.Equal(t, model.JobCompleted, StatusForProgress(100))
}

func TestRecompute_ScenarioTwoItems(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	fs.jobs[1] = model.Job{ID: 1, Status: model.JobNotStarted}
	fs.items[1] = []model.JobItem{
		{ID: 10, JobID: 1, Quantity: 4, EstimatedTimePerItem: 10},
		{ID: 11, JobID: 1, Quantity: 1, EstimatedTimePerItem: 5},
	}
	eng := Engine{Store: fs}

	require.NoError(t, eng.Recompute(ctx, 1))
	job := fs.jobs[1]
	assert.Equal(t, 45, job.TotalEstimatedTime)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, model.JobNotStarted, job.Status)
	assert.Nil(t, job.CompletedAt)

	// item A: all 4 units done -> 4/5 units, 80%
	fs.items[1][0].CompletedQuantity = 4
	require.NoError(t, eng.Recompute(ctx, 1))
	job = fs.jobs[1]
	assert.Equal(t, 80, job.Progress)
	assert.Equal(t, model.JobPrinting, job.Status)
	assert.Nil(t, job.CompletedAt)

	// item B done too -> 5/5, completed, CompletedAt stamped
	fs.items[1][1].CompletedQuantity = 1
	require.NoError(t, eng.Recompute(ctx, 1))
	job = fs.jobs[1]
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, model.JobCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)

	// deleting item B shrinks the denominator; totals follow the new set
	firstCompleted := *job.CompletedAt
	fs.items[1] = fs.items[1][:1]
	require.NoError(t, eng.Recompute(ctx, 1))
	job = fs.jobs[1]
	assert.Equal(t, 40, job.TotalEstimatedTime)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, model.JobCompleted, job.Status)
	assert.Equal(t, firstCompleted, *job.CompletedAt, "CompletedAt is set once and kept")
}

func TestRecompute_OverwritesManualStatus(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	fs.jobs[1] = model.Job{ID: 1, Status: model.JobPaused}
	fs.items[1] = []model.JobItem{{ID: 10, JobID: 1, Quantity: 2, CompletedQuantity: 1}}
	eng := Engine{Store: fs}

	require.NoError(t, eng.Recompute(ctx, 1))
	assert.Equal(t, model.JobPrinting, fs.jobs[1].Status)
}

func TestRecompute_Idempotent(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	fs.jobs[1] = model.Job{ID: 1, Status: model.JobNotStarted}
	fs.items[1] = []model.JobItem{
		{ID: 10, JobID: 1, Quantity: 3, EstimatedTimePerItem: 7, CompletedQuantity: 1},
	}
	eng := Engine{Store: fs}

	require.NoError(t, eng.Recompute(ctx, 1))
	first := fs.jobs[1]
	require.NoError(t, eng.Recompute(ctx, 1))
	assert.Equal(t, first, fs.jobs[1])
}

func TestRecompute_MissingJob(t *testing.T) {
	ctx := context.Background()
	eng := Engine{Store: newFakeStore()}

	err := eng.Recompute(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRecompute_NoItemsWritesZero(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	fs.jobs[1] = model.Job{ID: 1, Status: model.JobPrinting, TotalEstimatedTime: 45, Progress: 80}
	eng := Engine{Store: fs}

	require.NoError(t, eng.Recompute(ctx, 1))
	job := fs.jobs[1]
	assert.Equal(t, 0, job.TotalEstimatedTime)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, model.JobNotStarted, job.Status)
}

func TestFormatJobNumber(t *testing.T) {
	assert.Equal(t, "2024-001", FormatJobNumber(2024, 1))
	assert.Equal(t, "2024-002", FormatJobNumber(2024, 2))
	assert.Equal(t, "2024-011", FormatJobNumber(2024, 11))
	assert.Equal(t, "2025-1234", FormatJobNumber(2025, 1234), "padding is a minimum, long sequences keep all digits")
}
