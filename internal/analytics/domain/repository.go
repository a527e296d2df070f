package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/careertrail/careertrail/internal/period"
)

// SnapshotRepository is the append-only snapshot store.
type SnapshotRepository interface {
	// Upsert writes a snapshot, replacing any existing row for the same
	// (member_id, period_type, snapshot_date). Replace keeps a batch day
	// re-runnable.
	Upsert(ctx context.Context, snapshot *Snapshot) error

	// LatestBefore returns the most recent snapshot strictly before the
	// given date, or nil when none exists.
	LatestBefore(ctx context.Context, memberID snowflake.ID, periodType period.Type, before time.Time) (*Snapshot, error)

	// Latest returns the member's most recent snapshot, or nil.
	Latest(ctx context.Context, memberID snowflake.ID, periodType period.Type) (*Snapshot, error)
}
