package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/careertrail/careertrail/internal/period"
)

var (
	ErrInvalidMember    = errors.New("invalid_member")
	ErrSnapshotNotFound = errors.New("snapshot_not_found")
)

// Service generates and reads derived analytics snapshots.
type Service interface {
	// GenerateSnapshot computes and persists today's snapshot for one member.
	// Calling it twice for the same (member, period type, date) replaces the
	// earlier row; it never leaves two.
	GenerateSnapshot(ctx context.Context, memberID, teamID snowflake.ID, periodType period.Type) (snowflake.ID, error)

	// LatestSnapshot returns the member's most recent snapshot of the given
	// period type, or ErrSnapshotNotFound.
	LatestSnapshot(ctx context.Context, memberID snowflake.ID, periodType period.Type) (*Snapshot, error)
}
