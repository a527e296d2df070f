// Package domain contains the read-only view of member profiles. Profiles are
// owned by the surrounding application; the engine only fingerprints them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Profile is the mutable source entity whose state gates derived-cache reuse.
type Profile struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	MemberID   snowflake.ID      `gorm:"not null;uniqueIndex"`
	Headline   string            `gorm:"type:text"`
	Summary    string            `gorm:"type:text"`
	TargetRole string            `gorm:"type:text"`
	Location   string            `gorm:"type:text"`
	Skills     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }
