// Package domain contains persistence models and pure computation rules for
// derived analytics snapshots.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/careertrail/careertrail/internal/period"
	"gorm.io/datatypes"
)

// Snapshot is an immutable dated record of derived metrics for one member and
// period. At most one row exists per (member_id, period_type, snapshot_date);
// re-running a batch day replaces the row in place, nothing else ever
// mutates it.
type Snapshot struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	MemberID snowflake.ID `gorm:"not null;uniqueIndex:ux_snapshots_member_period_date,priority:1"`
	TeamID   snowflake.ID `gorm:"index"`

	PeriodType   period.Type `gorm:"type:text;not null;uniqueIndex:ux_snapshots_member_period_date,priority:2"`
	PeriodStart  time.Time   `gorm:"not null"`
	PeriodEnd    time.Time   `gorm:"not null"`
	SnapshotDate time.Time   `gorm:"not null;uniqueIndex:ux_snapshots_member_period_date,priority:3"`

	// Closed metric set the engine reasons about.
	TotalApplications  int64   `gorm:"not null"`
	PeriodApplications int64   `gorm:"not null"`
	PeriodResponses    int64   `gorm:"not null"`
	PeriodInterviews   int64   `gorm:"not null"`
	PeriodOffers       int64   `gorm:"not null"`
	ResponseRate       float64 `gorm:"not null"`
	InterviewRate      float64 `gorm:"not null"`
	OfferRate          float64 `gorm:"not null"`
	ActiveStreakDays   int     `gorm:"not null"`

	// Signed percentage deltas against the previous snapshot of the same
	// period type. Zero when no prior snapshot exists.
	ApplicationsDelta  float64 `gorm:"not null"`
	ResponseRateDelta  float64 `gorm:"not null"`
	InterviewRateDelta float64 `gorm:"not null"`
	OfferRateDelta     float64 `gorm:"not null"`

	// Per-status counts within the period. The label set is open-ended and
	// preserved verbatim, including statuses the engine does not know.
	StatusCounts datatypes.JSONMap `gorm:"type:jsonb"`

	// Extra carries forward-compatible extension metrics.
	Extra datatypes.JSONMap `gorm:"type:jsonb"`

	GeneratedAt time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Snapshot) TableName() string { return "analytics_snapshots" }
