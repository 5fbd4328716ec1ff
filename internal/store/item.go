package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/printshop/api-go/internal/engine"
	"github.com/example/printshop/api-go/internal/model"
)

const itemColumns = `id, job_id, name, quantity, estimated_time_per_item,
       completed_quantity, material, notes, status, created_at`

// CreateItem inserts a line item and recomputes the owning job's derived
// fields in the same transaction. The updated job is returned alongside the
// item so callers see both sides of the mutation atomically.
func (s *Store) CreateItem(ctx context.Context, item model.JobItem) (model.JobItem, model.Job, error) {
	if item.Status == "" {
		item.Status = string(model.JobNotStarted)
	}
	item.CreatedAt = time.Now().UTC()

	var job model.Job
	err := s.withTx(ctx, func(q queries) error {
		res, err := q.db.ExecContext(ctx,
			`INSERT INTO job_items (job_id, name, quantity, estimated_time_per_item,
               completed_quantity, material, notes, status, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.JobID,
			item.Name,
			item.Quantity,
			item.EstimatedTimePerItem,
			item.CompletedQuantity,
			item.Material,
			item.Notes,
			item.Status,
			item.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return err
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return err
		}

		eng := engine.Engine{Store: q}
		if err := eng.Recompute(ctx, item.JobID); err != nil {
			return err
		}
		job, err = q.GetJob(ctx, item.JobID)
		return err
	})
	if err != nil {
		return model.JobItem{}, model.Job{}, err
	}
	return item, job, nil
}

// UpdateItem applies a partial update and recomputes the owning job in the
// same transaction.
func (s *Store) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (model.JobItem, model.Job, error) {
	var (
		item model.JobItem
		job  model.Job
	)
	err := s.withTx(ctx, func(q queries) error {
		res, err := q.db.ExecContext(ctx,
			`UPDATE job_items
             SET name = COALESCE(?, name),
                 quantity = COALESCE(?, quantity),
                 estimated_time_per_item = COALESCE(?, estimated_time_per_item),
                 completed_quantity = COALESCE(?, completed_quantity),
                 material = COALESCE(?, material),
                 notes = COALESCE(?, notes),
                 status = COALESCE(?, status)
             WHERE id = ?`,
			nullableString(patch.Name),
			nullableInt(patch.Quantity),
			nullableInt(patch.EstimatedTimePerItem),
			nullableInt(patch.CompletedQuantity),
			nullableString(patch.Material),
			nullableString(patch.Notes),
			nullableString(patch.Status),
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

		if item, err = q.getItem(ctx, id); err != nil {
			return err
		}
		eng := engine.Engine{Store: q}
		if err := eng.Recompute(ctx, item.JobID); err != nil {
			return err
		}
		job, err = q.GetJob(ctx, item.JobID)
		return err
	})
	if err != nil {
		return model.JobItem{}, model.Job{}, err
	}
	return item, job, nil
}

// DeleteItem removes a line item and recomputes the owning job in the same
// transaction. A delete shrinks the unit denominator, so progress and status
// are re-derived just like on create and update.
func (s *Store) DeleteItem(ctx context.Context, id int64) (model.Job, error) {
	var job model.Job
	err := s.withTx(ctx, func(q queries) error {
		item, err := q.getItem(ctx, id)
		if err != nil {
			return err
		}
		if _, err := q.db.ExecContext(ctx, `DELETE FROM job_items WHERE id = ?`, id); err != nil {
			return err
		}

		eng := engine.Engine{Store: q}
		if err := eng.Recompute(ctx, item.JobID); err != nil {
			return err
		}
		job, err = q.GetJob(ctx, item.JobID)
		return err
	})
	if err != nil {
		return model.Job{}, err
	}
	return job, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (model.JobItem, error) {
	return s.queries.getItem(ctx, id)
}

func (q queries) getItem(ctx context.Context, id int64) (model.JobItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM job_items WHERE id = ?`, id)
	return scanItem(row)
}

func (q queries) ListItems(ctx context.Context, jobID int64) ([]model.JobItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM job_items WHERE job_id = ? ORDER BY id ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.JobItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanItem(row rowScanner) (model.JobItem, error) {
	var (
		item      model.JobItem
		createdMs int64
	)
	err := row.Scan(
		&item.ID, &item.JobID, &item.Name, &item.Quantity,
		&item.EstimatedTimePerItem, &item.CompletedQuantity,
		&item.Material, &item.Notes, &item.Status, &createdMs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.JobItem{}, model.ErrNotFound
		}
		return model.JobItem{}, err
	}
	item.CreatedAt = time.UnixMilli(createdMs)
	return item, nil
}
