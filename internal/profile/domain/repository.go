package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidMember = errors.New("invalid_member")
)

// Repository reads profiles owned by the surrounding application.
type Repository interface {
	// FindByMember returns the member's profile, or nil when none exists.
	FindByMember(ctx context.Context, memberID snowflake.ID) (*Profile, error)
}
