package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/printshop/api-go/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateJob_AssignsSequentialNumbers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	year := time.Now().UTC().Year()

	var jobs []model.Job
	for i := 0; i < 3; i++ {
		job, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
		require.NoError(t, err)
		jobs = append(jobs, job)
	}
	assert.Equal(t, fmt.Sprintf("%d-001", year), jobs[0].JobNumber)
	assert.Equal(t, fmt.Sprintf("%d-002", year), jobs[1].JobNumber)
	assert.Equal(t, fmt.Sprintf("%d-003", year), jobs[2].JobNumber)

	// sequence values are never reused, even after a delete
	require.NoError(t, s.DeleteJob(ctx, jobs[2].ID))
	job, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d-004", year), job.JobNumber)
}

func TestCreateJob_Defaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	job, err := s.CreateJob(ctx, model.Job{CustomerID: 7})
	require.NoError(t, err)
	assert.Equal(t, model.JobNotStarted, job.Status)
	assert.Equal(t, model.PriorityNormal, job.Priority)
	assert.Equal(t, 0, job.TotalEstimatedTime)
	assert.Equal(t, 0, job.Progress)
	assert.Nil(t, job.CompletedAt)
	assert.False(t, job.CreatedAt.IsZero())

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobNumber, got.JobNumber)
	assert.Equal(t, int64(7), got.CustomerID)
}

func TestItemMutationsRecomputeJob(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	job, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)

	itemA, updated, err := s.CreateItem(ctx, model.JobItem{
		JobID: job.ID, Name: "bracket", Quantity: 4, EstimatedTimePerItem: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.TotalEstimatedTime)
	assert.Equal(t, string(model.JobNotStarted), itemA.Status)

	itemB, updated, err := s.CreateItem(ctx, model.JobItem{
		JobID: job.ID, Name: "lid", Quantity: 1, EstimatedTimePerItem: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.TotalEstimatedTime)
	assert.Equal(t, 0, updated.Progress)
	assert.Equal(t, model.JobNotStarted, updated.Status)

	// item A fully printed: 4 of 5 units, 80%
	done := 4
	_, updated, err = s.UpdateItem(ctx, itemA.ID, model.ItemPatch{CompletedQuantity: &done})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Progress)
	assert.Equal(t, model.JobPrinting, updated.Status)
	assert.Nil(t, updated.CompletedAt)

	// item B printed: 5 of 5, job completes and gets stamped
	doneB := 1
	_, updated, err = s.UpdateItem(ctx, itemB.ID, model.ItemPatch{CompletedQuantity: &doneB})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, model.JobCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	completedAt := *updated.CompletedAt

	// deleting item B re-derives against the smaller denominator
	updated, err = s.DeleteItem(ctx, itemB.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.TotalEstimatedTime)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, model.JobCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, completedAt.UnixMilli(), updated.CompletedAt.UnixMilli())

	items, err := s.ListItems(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, itemA.ID, items[0].ID)
}

func TestCreateItem_MissingJobRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, _, err := s.CreateItem(ctx, model.JobItem{JobID: 99, Name: "ghost", Quantity: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)

	// the transaction rolled the orphan row back
	items, err := s.ListItems(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateJob_DirectStatusPaths(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	job, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)
	item, _, err := s.CreateItem(ctx, model.JobItem{JobID: job.ID, Name: "case", Quantity: 2})
	require.NoError(t, err)

	// operator pauses the job by hand
	paused := model.JobPaused
	updated, err := s.UpdateJob(ctx, job.ID, model.JobPatch{Status: &paused})
	require.NoError(t, err)
	assert.Equal(t, model.JobPaused, updated.Status)
	assert.Nil(t, updated.CompletedAt)

	// next item mutation overwrites the manual status
	done := 1
	_, updated, err = s.UpdateItem(ctx, item.ID, model.ItemPatch{CompletedQuantity: &done})
	require.NoError(t, err)
	assert.Equal(t, model.JobPrinting, updated.Status)

	// a direct patch to completed stamps CompletedAt exactly once
	completed := model.JobCompleted
	updated, err = s.UpdateJob(ctx, job.ID, model.JobPatch{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	first := *updated.CompletedAt

	updated, err = s.UpdateJob(ctx, job.ID, model.JobPatch{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, first.UnixMilli(), updated.CompletedAt.UnixMilli())

	_, err = s.UpdateJob(ctx, 9999, model.JobPatch{Status: &paused})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListJobs_FilterAndLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 4; i++ {
		_, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
		require.NoError(t, err)
	}
	job, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)
	paused := model.JobPaused
	_, err = s.UpdateJob(ctx, job.ID, model.JobPatch{Status: &paused})
	require.NoError(t, err)

	all, err := s.ListJobs(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	pausedOnly, err := s.ListJobs(ctx, &paused, 0)
	require.NoError(t, err)
	require.Len(t, pausedOnly, 1)
	assert.Equal(t, job.ID, pausedOnly[0].ID)

	limited, err := s.ListJobs(ctx, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCustomerCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	customer, err := s.CreateCustomer(ctx, model.Customer{
		Name: "Acme Props", Email: "orders@acme.test", Phone: "555-0101",
	})
	require.NoError(t, err)
	require.NotZero(t, customer.ID)

	phone := "555-0199"
	updated, err := s.UpdateCustomer(ctx, customer.ID, model.CustomerPatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Acme Props", updated.Name, "unpatched fields are untouched")
	assert.Equal(t, customer.CreatedAt.UnixMilli(), updated.CreatedAt.UnixMilli())

	list, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteCustomer(ctx, customer.ID))
	_, err = s.GetCustomer(ctx, customer.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCustomer(ctx, customer.ID), model.ErrNotFound)
}

func TestGetJobWithDetails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	customer, err := s.CreateCustomer(ctx, model.Customer{Name: "Acme Props"})
	require.NoError(t, err)
	job, err := s.CreateJob(ctx, model.Job{CustomerID: customer.ID})
	require.NoError(t, err)
	_, _, err = s.CreateItem(ctx, model.JobItem{JobID: job.ID, Name: "gear", Quantity: 3})
	require.NoError(t, err)

	details, err := s.GetJobWithDetails(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Customer)
	assert.Equal(t, customer.ID, details.Customer.ID)
	require.Len(t, details.Items, 1)
	assert.Equal(t, "gear", details.Items[0].Name)

	// customer deletes do not cascade; the job survives with a nil customer
	require.NoError(t, s.DeleteCustomer(ctx, customer.ID))
	details, err = s.GetJobWithDetails(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, details.Customer)
	assert.Equal(t, job.ID, details.Job.ID)
}

func TestNotifications_AppendOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	job, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)

	first, err := s.CreateNotification(ctx, model.Notification{
		JobID: job.ID, Kind: "email", Recipient: "orders@acme.test", Message: "job received",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = s.CreateNotification(ctx, model.Notification{
		JobID: job.ID, Kind: "email", Message: "job completed",
	})
	require.NoError(t, err)

	list, err := s.ListNotifications(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = s.CreateNotification(ctx, model.Notification{JobID: 999, Kind: "email", Message: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// printing job with 45 estimated minutes
	printing, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)
	_, _, err = s.CreateItem(ctx, model.JobItem{
		JobID: printing.ID, Name: "bracket", Quantity: 4, EstimatedTimePerItem: 10, CompletedQuantity: 1,
	})
	require.NoError(t, err)
	_, _, err = s.CreateItem(ctx, model.JobItem{
		JobID: printing.ID, Name: "lid", Quantity: 1, EstimatedTimePerItem: 5,
	})
	require.NoError(t, err)

	// paused job
	pausedJob, err := s.CreateJob(ctx, model.Job{CustomerID: 1})
	require.NoError(t, err)
	paused := model.JobPaused
	_, err = s.UpdateJob(ctx, pausedJob.ID, model.JobPatch{Status: &paused})
	require.NoError(t, err)

	// queued job
	_, err = s.CreateJob(ctx, model.Job{CustomerID: 2})
	require.NoError(t, err)

	// job completed just now
	completedJob, err := s.CreateJob(ctx, model.Job{CustomerID: 2})
	require.NoError(t, err)
	completed := model.JobCompleted
	_, err = s.UpdateJob(ctx, completedJob.ID, model.JobPatch{Status: &completed})
	require.NoError(t, err)

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveJobs, "printing + paused")
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 1, stats.QueueLength)
	assert.Equal(t, 1, stats.TotalPrintTimeHours, "45 minutes rounds to 1 hour")
}
