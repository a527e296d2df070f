// Package domain contains the read-only view of job application activity.
// Records are owned by the surrounding application; the engine only reads
// and aggregates them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Known application statuses. The label set is open-ended: rows may carry
// statuses the engine has never seen and aggregation must preserve them.
const (
	StatusApplied    = "applied"
	StatusScreening  = "screening"
	StatusInterview  = "interview"
	StatusOffer      = "offer"
	StatusRejected   = "rejected"
	StatusWithdrawn  = "withdrawn"
	StatusNoResponse = "no_response"
)

// ApplicationEvent is one timestamped job application fact for a member.
// Immutable once created except for status and updated_at.
type ApplicationEvent struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	MemberID snowflake.ID `gorm:"not null;index"`
	TeamID   snowflake.ID `gorm:"index"`

	Company   string            `gorm:"type:text;not null"`
	Role      string            `gorm:"type:text"`
	Status    string            `gorm:"type:text;not null;default:applied"`
	AppliedAt time.Time         `gorm:"not null;index"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ApplicationEvent) TableName() string { return "application_events" }

// CountsAsResponse reports whether a status means the company got back to
// the applicant in any form.
func CountsAsResponse(status string) bool {
	switch status {
	case StatusScreening, StatusInterview, StatusOffer, StatusRejected:
		return true
	default:
		return false
	}
}

// CountsAsInterview reports whether a status means the applicant reached an
// interview stage or beyond.
func CountsAsInterview(status string) bool {
	switch status {
	case StatusInterview, StatusOffer:
		return true
	default:
		return false
	}
}
