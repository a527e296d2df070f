// Package vcache serves expensive derived artifacts through a DB-backed cache
// whose validity is tied to a fingerprint of the mutable source data, with a
// hard TTL floor for externally-sourced facts.
package vcache

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/careertrail/careertrail/internal/cache"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/fingerprint"
	"github.com/careertrail/careertrail/internal/observability/metrics"
	vcachedomain "github.com/careertrail/careertrail/internal/vcache/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VolatileTTL is the fixed expiry for externally-sourced facts. They age on
// their own schedule, independent of any local fingerprint.
const VolatileTTL = 7 * 24 * time.Hour

// memoTTL bounds the in-process front cache. Freshness is still re-evaluated
// on every read; only the DB row fetch is skipped.
const memoTTL = 5 * time.Second

var ErrInvalidSubject = errors.New("invalid_cache_subject")

// Tier selects the staleness policy for a cache entry.
type Tier struct {
	TTL              time.Duration
	CheckFingerprint bool
}

// Volatile is the policy for externally-sourced facts: fixed TTL, no
// fingerprint comparison.
func Volatile() Tier {
	return Tier{TTL: VolatileTTL, CheckFingerprint: false}
}

// Derived is the policy for computations over a member's own mutable profile:
// caller-controlled TTL plus fingerprint equality.
func Derived(ttl time.Duration) Tier {
	return Tier{TTL: ttl, CheckFingerprint: true}
}

// Subject identifies the entity a derived artifact belongs to. Qualifier
// narrows composite subjects, e.g. "job:<id>" for member-by-job artifacts.
type Subject struct {
	MemberID  snowflake.ID
	Qualifier string
}

// Key renders the stable subject key stored in the cache table.
func (s Subject) Key() string {
	key := "member:" + s.MemberID.String()
	if s.Qualifier != "" {
		key += ":" + s.Qualifier
	}
	return key
}

// ComputeFunc produces a derived artifact on cache miss or staleness.
type ComputeFunc func(ctx context.Context) (datatypes.JSONMap, error)

type Store struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	clock        clock.Clock
	fingerprints fingerprint.Provider
	metrics      *metrics.EngineMetrics
	memo         *cache.TTLCache[string, vcachedomain.CacheEntry]
}

type StoreParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Fingerprints fingerprint.Provider
	Metrics      *metrics.EngineMetrics `optional:"true"`
}

func NewStore(p StoreParam) *Store {
	return &Store{
		db:  p.DB,
		log: p.Log.Named("vcache"),

		genID:        p.GenID,
		clock:        p.Clock,
		fingerprints: p.Fingerprints,
		metrics:      p.Metrics,
		memo:         cache.NewTTLCache[string, vcachedomain.CacheEntry](),
	}
}

// Get returns the cached payload and whether it is fresh. Freshness requires
// both an unexpired TTL and, for fingerprint-checked tiers, an unchanged
// source fingerprint. A miss is not an error.
func (s *Store) Get(ctx context.Context, subject Subject, kind string, tier Tier) (datatypes.JSONMap, bool, error) {
	if subject.MemberID == 0 || kind == "" {
		return nil, false, ErrInvalidSubject
	}

	entry, err := s.load(ctx, subject.Key(), kind)
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		s.metrics.IncCacheLookup(kind, "miss")
		return nil, false, nil
	}

	now := s.clock.Now()
	if now.After(entry.ExpiresAt) {
		s.metrics.IncCacheLookup(kind, "expired")
		return nil, false, nil
	}

	if tier.CheckFingerprint {
		current, err := s.fingerprints.Current(ctx, subject.MemberID)
		if err != nil {
			return nil, false, err
		}
		if current != entry.Fingerprint {
			s.metrics.IncCacheLookup(kind, "stale")
			return nil, false, nil
		}
	}

	s.metrics.IncCacheLookup(kind, "hit")
	return entry.Payload, true, nil
}

// Put writes a derived artifact, superseding any prior entry for the same
// (subject, kind). This is the only way an entry becomes current.
func (s *Store) Put(ctx context.Context, subject Subject, kind string, payload datatypes.JSONMap, tier Tier) error {
	if subject.MemberID == 0 || kind == "" {
		return ErrInvalidSubject
	}

	var fp string
	if tier.CheckFingerprint {
		current, err := s.fingerprints.Current(ctx, subject.MemberID)
		if err != nil {
			return err
		}
		fp = current
	}

	now := s.clock.Now()
	entry := vcachedomain.CacheEntry{
		ID:          s.genID.Generate(),
		SubjectKey:  subject.Key(),
		Kind:        kind,
		Payload:     payload,
		Fingerprint: fp,
		ExpiresAt:   now.Add(tier.TTL),
		WrittenAt:   now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "subject_key"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"payload", "fingerprint", "expires_at", "written_at",
		}),
	}).Create(&entry).Error
	if err != nil {
		return err
	}
	s.memo.Delete(memoKey(subject.Key(), kind))
	return nil
}

// Invalidate removes an entry regardless of freshness. Used when source data
// changes in a way the fingerprint does not capture, e.g. an explicit
// user-triggered refresh.
func (s *Store) Invalidate(ctx context.Context, subject Subject, kind string) error {
	if subject.MemberID == 0 || kind == "" {
		return ErrInvalidSubject
	}
	err := s.db.WithContext(ctx).Exec(
		`DELETE FROM derived_cache_entries WHERE subject_key = ? AND kind = ?`,
		subject.Key(),
		kind,
	).Error
	if err != nil {
		return err
	}
	s.memo.Delete(memoKey(subject.Key(), kind))
	return nil
}

// GetOrCompute is the standard cached-read path: compute runs only on a miss
// or staleness, and its result is stored before being returned. Concurrent
// recomputations for the same key are safe; the last Put wins.
func (s *Store) GetOrCompute(ctx context.Context, subject Subject, kind string, tier Tier, compute ComputeFunc) (datatypes.JSONMap, error) {
	payload, fresh, err := s.Get(ctx, subject, kind, tier)
	if err != nil {
		return nil, err
	}
	if fresh {
		return payload, nil
	}

	computed, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, subject, kind, computed, tier); err != nil {
		return nil, err
	}
	return computed, nil
}

func (s *Store) load(ctx context.Context, subjectKey, kind string) (*vcachedomain.CacheEntry, error) {
	if entry, ok := s.memo.Get(memoKey(subjectKey, kind)); ok {
		return &entry, nil
	}

	var entry vcachedomain.CacheEntry
	err := s.db.WithContext(ctx).
		Where("subject_key = ? AND kind = ?", subjectKey, kind).
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	s.memo.Set(memoKey(subjectKey, kind), entry, memoTTL)
	return &entry, nil
}

func memoKey(subjectKey, kind string) string {
	return subjectKey + "|" + kind
}
