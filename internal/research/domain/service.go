// Package domain defines the derived read-side artifacts served through the
// versioned cache.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Artifact kinds stored in the derived cache.
const (
	KindCompanyResearch = "company_research"
	KindPositioning     = "positioning"
)

var (
	ErrInvalidMember  = errors.New("invalid_member")
	ErrInvalidCompany = errors.New("invalid_company")
)

// Service serves expensive derived artifacts, recomputing only when the
// cache says the stored result is stale.
type Service interface {
	// CompanyResearch returns aggregated research about one company for one
	// member. Externally-sourced facts age on a fixed schedule, so results
	// live in the volatile cache tier.
	CompanyResearch(ctx context.Context, memberID snowflake.ID, company string) (datatypes.JSONMap, error)

	// Positioning returns the member's competitive positioning derived from
	// their own profile and snapshots. Results live in the fingerprint-
	// checked derived tier.
	Positioning(ctx context.Context, memberID snowflake.ID) (datatypes.JSONMap, error)

	// RefreshPositioning drops the cached positioning so the next read
	// recomputes, for changes the fingerprint does not capture.
	RefreshPositioning(ctx context.Context, memberID snowflake.ID) error
}
