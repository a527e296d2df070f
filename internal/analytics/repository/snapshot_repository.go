package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	"github.com/careertrail/careertrail/internal/period"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormSnapshotRepository struct {
	db *gorm.DB
}

// ProvideSnapshotStore constructs the gorm-backed snapshot store.
func ProvideSnapshotStore(db *gorm.DB) analyticsdomain.SnapshotRepository {
	return &gormSnapshotRepository{db: db}
}

// replaceColumns are the columns rewritten on an idempotent re-run of the
// same snapshot date. Identity columns stay untouched.
var replaceColumns = []string{
	"team_id", "period_start", "period_end",
	"total_applications", "period_applications", "period_responses",
	"period_interviews", "period_offers",
	"response_rate", "interview_rate", "offer_rate", "active_streak_days",
	"applications_delta", "response_rate_delta", "interview_rate_delta", "offer_rate_delta",
	"status_counts", "extra", "generated_at",
}

func (r *gormSnapshotRepository) Upsert(ctx context.Context, snapshot *analyticsdomain.Snapshot) error {
	if snapshot == nil || snapshot.MemberID == 0 {
		return analyticsdomain.ErrInvalidMember
	}
	if !snapshot.PeriodType.Valid() {
		return period.ErrInvalidType
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "member_id"},
			{Name: "period_type"},
			{Name: "snapshot_date"},
		},
		DoUpdates: clause.AssignmentColumns(replaceColumns),
	}).Create(snapshot).Error
}

func (r *gormSnapshotRepository) LatestBefore(ctx context.Context, memberID snowflake.ID, periodType period.Type, before time.Time) (*analyticsdomain.Snapshot, error) {
	return r.findLatest(ctx, memberID, periodType, &before)
}

func (r *gormSnapshotRepository) Latest(ctx context.Context, memberID snowflake.ID, periodType period.Type) (*analyticsdomain.Snapshot, error) {
	return r.findLatest(ctx, memberID, periodType, nil)
}

func (r *gormSnapshotRepository) findLatest(ctx context.Context, memberID snowflake.ID, periodType period.Type, before *time.Time) (*analyticsdomain.Snapshot, error) {
	if memberID == 0 {
		return nil, analyticsdomain.ErrInvalidMember
	}
	if !periodType.Valid() {
		return nil, period.ErrInvalidType
	}

	query := r.db.WithContext(ctx).
		Where("member_id = ? AND period_type = ?", memberID, periodType).
		Order("snapshot_date DESC")
	if before != nil {
		query = query.Where("snapshot_date < ?", period.Truncate(*before))
	}

	var snapshot analyticsdomain.Snapshot
	err := query.Limit(1).Find(&snapshot).Error
	if err != nil {
		return nil, err
	}
	if snapshot.ID == 0 {
		return nil, nil
	}
	return &snapshot, nil
}
