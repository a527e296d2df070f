// Package domain contains persistence models for the versioned derived cache.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CacheEntry is one live derived artifact. At most one row exists per
// (subject_key, kind); a new Put replaces the old row.
type CacheEntry struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	SubjectKey string       `gorm:"type:text;not null;uniqueIndex:ux_cache_subject_kind,priority:1"`
	Kind       string       `gorm:"type:text;not null;uniqueIndex:ux_cache_subject_kind,priority:2"`

	Payload datatypes.JSONMap `gorm:"type:jsonb;not null"`

	// Fingerprint of the mutable source at write time. Empty for volatile
	// entries whose validity is purely TTL-driven.
	Fingerprint string `gorm:"type:text"`

	ExpiresAt time.Time `gorm:"not null;index"`
	WrittenAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (CacheEntry) TableName() string { return "derived_cache_entries" }
