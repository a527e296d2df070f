package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidMember = errors.New("invalid_member")

	// ErrSourceUnavailable signals that the activity table does not exist in
	// this deployment. Consumers degrade to zero contribution instead of
	// failing the whole computation.
	ErrSourceUnavailable = errors.New("activity_source_unavailable")
)

// StatusCounts groups an aggregate total with its per-status breakdown.
// Unknown status labels pass through verbatim.
type StatusCounts struct {
	Total    int64
	ByStatus map[string]int64
}

// Repository reads and aggregates application activity.
type Repository interface {
	// CountsInRange aggregates events with applied_at inside [start, end].
	// Nil bounds leave that side open, so CountsInRange(ctx, m, nil, nil)
	// yields lifetime counts.
	CountsInRange(ctx context.Context, memberID snowflake.ID, start, end *time.Time) (StatusCounts, error)

	// DistinctActiveDays lists the distinct calendar days with at least one
	// event in [since, until], most recent first.
	DistinctActiveDays(ctx context.Context, memberID snowflake.ID, since, until time.Time) ([]time.Time, error)

	// ListByMember returns raw events for a member, newest first, optionally
	// restricted to applied_at >= since.
	ListByMember(ctx context.Context, memberID snowflake.ID, since *time.Time) ([]ApplicationEvent, error)
}
