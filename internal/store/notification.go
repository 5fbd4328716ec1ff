package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/printshop/api-go/internal/model"
)

// CreateNotification appends an outbound-message record to the job. There is
// no update or delete; the table is history.
func (s *Store) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()

	if _, err := s.GetJob(ctx, n.JobID); err != nil {
		return model.Notification{}, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, job_id, kind, recipient, message, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.JobID,
		n.Kind,
		n.Recipient,
		n.Message,
		n.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, jobID int64) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, kind, recipient, message, created_at
         FROM notifications WHERE job_id = ? ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n         model.Notification
			createdMs int64
		)
		if err := rows.Scan(&n.ID, &n.JobID, &n.Kind, &n.Recipient, &n.Message, &createdMs); err != nil {
			return nil, err
		}
		n.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, n)
	}
	return out, rows.Err()
}
