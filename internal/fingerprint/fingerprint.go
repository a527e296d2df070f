// Package fingerprint derives cheap staleness tokens from mutable source state.
// Equal fingerprints mean "unchanged for caching purposes"; this is an
// invalidation hint, not a cryptographic guarantee.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/careertrail/careertrail/internal/cache"
	profiledomain "github.com/careertrail/careertrail/internal/profile/domain"
)

// memoTTL bounds how long a computed fingerprint is reused before the profile
// row is re-read. Short enough that edits surface within one page load cycle.
const memoTTL = 30 * time.Second

// Provider resolves the current fingerprint for a member's mutable profile.
type Provider interface {
	Current(ctx context.Context, memberID snowflake.ID) (string, error)
}

// Sum hashes the given parts into an opaque hex token.
func Sum(parts ...string) string {
	payload := strings.Join(parts, "|")
	digest := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(digest[:])
}

// ProfileProvider fingerprints profiles read through the profile repository.
type ProfileProvider struct {
	repo profiledomain.Repository
	memo *cache.TTLCache[snowflake.ID, string]
}

// NewProfileProvider constructs a memoizing profile fingerprint provider.
func NewProfileProvider(repo profiledomain.Repository) *ProfileProvider {
	return &ProfileProvider{
		repo: repo,
		memo: cache.NewTTLCache[snowflake.ID, string](),
	}
}

// Current returns the fingerprint of the member's profile as it stands now.
// A missing profile maps to a stable "absent" token so caches keyed on it
// still invalidate once the profile is created.
func (p *ProfileProvider) Current(ctx context.Context, memberID snowflake.ID) (string, error) {
	if memberID == 0 {
		return "", profiledomain.ErrInvalidMember
	}
	if token, ok := p.memo.Get(memberID); ok {
		return token, nil
	}

	profile, err := p.repo.FindByMember(ctx, memberID)
	if err != nil {
		return "", err
	}

	token := Sum(profileParts(profile)...)
	p.memo.Set(memberID, token, memoTTL)
	return token, nil
}

// Forget drops the memoized fingerprint so the next read hits the repository.
func (p *ProfileProvider) Forget(memberID snowflake.ID) {
	p.memo.Delete(memberID)
}

func profileParts(profile *profiledomain.Profile) []string {
	if profile == nil {
		return []string{"profile", "absent"}
	}
	return []string{
		"profile",
		profile.MemberID.String(),
		profile.Headline,
		profile.Summary,
		profile.TargetRole,
		profile.Location,
		canonicalSkills(profile.Skills),
		profile.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func canonicalSkills(skills map[string]any) string {
	if len(skills) == 0 {
		return ""
	}
	keys := make([]string, 0, len(skills))
	for key := range skills {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, skills[key]))
	}
	return strings.Join(parts, ",")
}
