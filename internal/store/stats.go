package store

import (
	"context"
	"math"
	"time"

	"github.com/example/printshop/api-go/internal/model"
)

// GetStats computes the dashboard aggregates:
//
//   - active jobs: status printing or paused
//   - completed today: completed with completedAt at or after local midnight
//   - total print time: sum of job time estimates, in hours, rounded
//   - queue length: jobs not started yet
func (s *Store) GetStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status IN (?, ?)`,
		string(model.JobPrinting), string(model.JobPaused),
	).Scan(&stats.ActiveJobs)
	if err != nil {
		return model.Stats{}, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status = ? AND completed_at >= ?`,
		string(model.JobCompleted), startOfDay.UnixMilli(),
	).Scan(&stats.CompletedToday)
	if err != nil {
		return model.Stats{}, err
	}

	var totalMinutes int64
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_estimated_time), 0) FROM jobs`,
	).Scan(&totalMinutes)
	if err != nil {
		return model.Stats{}, err
	}
	stats.TotalPrintTimeHours = int(math.Round(float64(totalMinutes) / 60))

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status = ?`,
		string(model.JobNotStarted),
	).Scan(&stats.QueueLength)
	if err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
