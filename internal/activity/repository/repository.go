package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	"github.com/careertrail/careertrail/internal/period"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// Provide constructs the gorm-backed activity reader.
func Provide(db *gorm.DB) activitydomain.Repository {
	return &gormRepository{db: db}
}

type statusCountRow struct {
	Status string
	Count  int64
}

func (r *gormRepository) CountsInRange(ctx context.Context, memberID snowflake.ID, start, end *time.Time) (activitydomain.StatusCounts, error) {
	counts := activitydomain.StatusCounts{ByStatus: map[string]int64{}}
	if memberID == 0 {
		return counts, activitydomain.ErrInvalidMember
	}

	query := `SELECT status, COUNT(1) AS count
		 FROM application_events
		 WHERE member_id = ?`
	args := []any{memberID}
	if start != nil {
		query += ` AND applied_at >= ?`
		args = append(args, start.UTC())
	}
	if end != nil {
		// End bound is an inclusive calendar date; compare before next midnight.
		query += ` AND applied_at < ?`
		args = append(args, period.Truncate(*end).AddDate(0, 0, 1))
	}
	query += ` GROUP BY status`

	var rows []statusCountRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	if err != nil {
		return counts, mapSourceError(err)
	}
	for _, row := range rows {
		counts.ByStatus[row.Status] += row.Count
		counts.Total += row.Count
	}
	return counts, nil
}

func (r *gormRepository) DistinctActiveDays(ctx context.Context, memberID snowflake.ID, since, until time.Time) ([]time.Time, error) {
	if memberID == 0 {
		return nil, activitydomain.ErrInvalidMember
	}
	var stamps []time.Time
	err := r.db.WithContext(ctx).Raw(
		`SELECT applied_at
		 FROM application_events
		 WHERE member_id = ? AND applied_at >= ? AND applied_at < ?
		 ORDER BY applied_at DESC`,
		memberID,
		period.Truncate(since),
		period.Truncate(until).AddDate(0, 0, 1),
	).Scan(&stamps).Error
	if err != nil {
		return nil, mapSourceError(err)
	}

	seen := make(map[time.Time]struct{}, len(stamps))
	days := make([]time.Time, 0, len(stamps))
	for _, at := range stamps {
		day := period.Truncate(at)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}

func (r *gormRepository) ListByMember(ctx context.Context, memberID snowflake.ID, since *time.Time) ([]activitydomain.ApplicationEvent, error) {
	if memberID == 0 {
		return nil, activitydomain.ErrInvalidMember
	}
	query := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("applied_at DESC")
	if since != nil {
		query = query.Where("applied_at >= ?", since.UTC())
	}
	var events []activitydomain.ApplicationEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, mapSourceError(err)
	}
	return events, nil
}

// mapSourceError converts missing-table failures into ErrSourceUnavailable so
// callers can degrade to zero contribution. Deployments without the activity
// table are valid.
func mapSourceError(err error) error {
	if err == nil {
		return nil
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "no such table") || // sqlite
		strings.Contains(message, "does not exist") || // postgres 42P01
		strings.Contains(message, "doesn't exist") { // mysql
		return activitydomain.ErrSourceUnavailable
	}
	return err
}
