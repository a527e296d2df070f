package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrInvalidTeam = errors.New("invalid_team")

// Repository enumerates team populations for batch runs.
type Repository interface {
	// ActiveMemberIDs lists the member ids of active team members in a
	// stable order.
	ActiveMemberIDs(ctx context.Context, teamID snowflake.ID) ([]snowflake.ID, error)

	// AllTeamIDs lists every team with at least one active member.
	AllTeamIDs(ctx context.Context) ([]snowflake.ID, error)

	// TeamByMember resolves a member's active team, zero when the member has
	// none. Members on several teams resolve to the lowest team id.
	TeamByMember(ctx context.Context, memberID snowflake.ID) (snowflake.ID, error)
}
