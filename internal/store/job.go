package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/printshop/api-go/internal/engine"
	"github.com/example/printshop/api-go/internal/model"
)

const jobColumns = `id, customer_id, job_number, status, priority, due_date, notes,
       total_estimated_time, progress, actual_time, created_at, completed_at`

// CreateJob persists a new job. The job number is assigned here, exactly
// once, from the store's sequence; callers never choose it.
func (s *Store) CreateJob(ctx context.Context, job model.Job) (model.Job, error) {
	if job.Status == "" {
		job.Status = model.JobNotStarted
	}
	if job.Priority == "" {
		job.Priority = model.PriorityNormal
	}
	job.CreatedAt = time.Now().UTC()

	err := s.withTx(ctx, func(q queries) error {
		seq, err := q.nextSeq(ctx, "job_number")
		if err != nil {
			return err
		}
		job.JobNumber = engine.FormatJobNumber(job.CreatedAt.Year(), seq)

		res, err := q.db.ExecContext(ctx,
			`INSERT INTO jobs (customer_id, job_number, status, priority, due_date, notes,
               total_estimated_time, progress, actual_time, created_at, completed_at)
             VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?, NULL)`,
			job.CustomerID,
			job.JobNumber,
			string(job.Status),
			string(job.Priority),
			nullableTimeMs(job.DueDate),
			job.Notes,
			nullableInt(job.ActualTime),
			job.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return err
		}
		job.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return model.Job{}, err
	}
	job.TotalEstimatedTime = 0
	job.Progress = 0
	return job, nil
}

func (q queries) GetJob(ctx context.Context, id int64) (model.Job, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	return scanJob(row)
}

func (s *Store) ListJobs(ctx context.Context, status *model.JobStatus, limit int) ([]model.Job, error) {
	if limit <= 0 {
		limit = 25
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// WriteJob applies a partial update. Unlike the engine's derived writes, a
// direct status patch to completed stamps CompletedAt here if the job has
// never completed before.
func (q queries) WriteJob(ctx context.Context, id int64, patch model.JobPatch) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE jobs
         SET customer_id = COALESCE(?, customer_id),
             status = COALESCE(?, status),
             priority = COALESCE(?, priority),
             due_date = COALESCE(?, due_date),
             notes = COALESCE(?, notes),
             total_estimated_time = COALESCE(?, total_estimated_time),
             progress = COALESCE(?, progress),
             actual_time = COALESCE(?, actual_time),
             completed_at = COALESCE(?, completed_at)
         WHERE id = ?`,
		nullableInt64(patch.CustomerID),
		nullableStatus(patch.Status),
		nullablePriority(patch.Priority),
		nullableTimeMs(patch.DueDate),
		nullableString(patch.Notes),
		nullableInt(patch.TotalEstimatedTime),
		nullableInt(patch.Progress),
		nullableInt(patch.ActualTime),
		nullableTimeMs(patch.CompletedAt),
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateJob is the direct update path used by handlers. It wraps the patch
// in a transaction so the CompletedAt stamping reads and writes the same row
// state.
func (s *Store) UpdateJob(ctx context.Context, id int64, patch model.JobPatch) (model.Job, error) {
	var job model.Job
	err := s.withTx(ctx, func(q queries) error {
		current, err := q.GetJob(ctx, id)
		if err != nil {
			return err
		}
		if patch.Status != nil && *patch.Status == model.JobCompleted && current.CompletedAt == nil {
			now := time.Now().UTC()
			patch.CompletedAt = &now
		}
		if err := q.WriteJob(ctx, id, patch); err != nil {
			return err
		}
		job, err = q.GetJob(ctx, id)
		return err
	})
	if err != nil {
		return model.Job{}, err
	}
	return job, nil
}

// DeleteJob removes the job and its line items. Notification records are
// append-only history and stay.
func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(q queries) error {
		res, err := q.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrNotFound
		}
		_, err = q.db.ExecContext(ctx, `DELETE FROM job_items WHERE job_id = ?`, id)
		return err
	})
}

// GetJobWithDetails joins the job with its customer and items. The customer
// is nil when the job references one that no longer exists; customer deletes
// do not cascade.
func (s *Store) GetJobWithDetails(ctx context.Context, id int64) (model.JobDetails, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return model.JobDetails{}, err
	}
	details := model.JobDetails{Job: job}

	customer, err := s.GetCustomer(ctx, job.CustomerID)
	if err == nil {
		details.Customer = &customer
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.JobDetails{}, err
	}

	items, err := s.ListItems(ctx, id)
	if err != nil {
		return model.JobDetails{}, err
	}
	details.Items = items
	return details, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (model.Job, error) {
	var (
		job                  model.Job
		statusStr, priority  string
		dueMs, actual        sql.NullInt64
		createdMs, completed sql.NullInt64
	)
	err := row.Scan(
		&job.ID, &job.CustomerID, &job.JobNumber, &statusStr, &priority,
		&dueMs, &job.Notes, &job.TotalEstimatedTime, &job.Progress,
		&actual, &createdMs, &completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Job{}, model.ErrNotFound
		}
		return model.Job{}, err
	}
	job.Status = model.JobStatus(statusStr)
	job.Priority = model.JobPriority(priority)
	job.DueDate = timePtr(dueMs)
	job.ActualTime = intPtr(actual)
	job.CreatedAt = time.UnixMilli(createdMs.Int64)
	job.CompletedAt = timePtr(completed)
	return job, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStatus(v *model.JobStatus) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func nullablePriority(v *model.JobPriority) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
