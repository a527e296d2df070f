// Package domain contains the read-only view of team membership, used to
// enumerate the population for batch snapshot runs.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MemberStatus mirrors the surrounding application's membership lifecycle.
const (
	MemberStatusActive   = "active"
	MemberStatusInvited  = "invited"
	MemberStatusArchived = "archived"
)

// TeamMember links a member to a team.
type TeamMember struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TeamID   snowflake.ID `gorm:"not null;index"`
	MemberID snowflake.ID `gorm:"not null;index"`
	Status   string       `gorm:"type:text;not null;default:active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TeamMember) TableName() string { return "team_members" }
