package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/period"
	"github.com/careertrail/careertrail/internal/streak"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log *zap.Logger

	genID        *snowflake.Node
	clock        clock.Clock
	activityRepo activitydomain.Repository
	snapshotRepo analyticsdomain.SnapshotRepository
}

type ServiceParam struct {
	fx.In

	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	ActivityRepo activitydomain.Repository
	SnapshotRepo analyticsdomain.SnapshotRepository
}

func NewService(p ServiceParam) analyticsdomain.Service {
	return &Service{
		log: p.Log.Named("analytics.service"),

		genID:        p.GenID,
		clock:        p.Clock,
		activityRepo: p.ActivityRepo,
		snapshotRepo: p.SnapshotRepo,
	}
}

func (s *Service) GenerateSnapshot(ctx context.Context, memberID, teamID snowflake.ID, periodType period.Type) (snowflake.ID, error) {
	if memberID == 0 {
		return 0, analyticsdomain.ErrInvalidMember
	}
	// Configuration errors are rejected before any source read.
	if !periodType.Valid() {
		return 0, period.ErrInvalidType
	}

	ctx, span := otel.Tracer("careertrail/analytics").Start(ctx, "analytics.generate_snapshot")
	span.SetAttributes(
		attribute.String("member_id", memberID.String()),
		attribute.String("period_type", string(periodType)),
	)
	defer span.End()

	now := s.clock.Now()
	today := period.Truncate(now)
	periodStart, periodEnd, err := period.Bounds(periodType, now)
	if err != nil {
		return 0, err
	}

	metrics, err := s.aggregate(ctx, memberID, periodStart, periodEnd, now)
	if err != nil {
		return 0, err
	}

	prior, err := s.snapshotRepo.LatestBefore(ctx, memberID, periodType, today)
	if err != nil {
		return 0, err
	}

	snapshot := &analyticsdomain.Snapshot{
		ID:       s.genID.Generate(),
		MemberID: memberID,
		TeamID:   teamID,

		PeriodType:   periodType,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		SnapshotDate: today,

		TotalApplications:  metrics.lifetimeTotal,
		PeriodApplications: metrics.periodTotal,
		PeriodResponses:    metrics.responses,
		PeriodInterviews:   metrics.interviews,
		PeriodOffers:       metrics.offers,
		ResponseRate:       analyticsdomain.Rate(metrics.responses, metrics.periodTotal),
		InterviewRate:      analyticsdomain.Rate(metrics.interviews, metrics.periodTotal),
		OfferRate:          analyticsdomain.Rate(metrics.offers, metrics.periodTotal),
		ActiveStreakDays:   metrics.streakDays,

		StatusCounts: metrics.statusCounts,
		GeneratedAt:  now,
	}
	applyTrendDeltas(snapshot, prior)

	if err := s.snapshotRepo.Upsert(ctx, snapshot); err != nil {
		return 0, err
	}

	// The replace path keeps the original row id; report the stored one.
	stored, err := s.snapshotRepo.Latest(ctx, memberID, periodType)
	if err != nil {
		return 0, err
	}
	if stored == nil {
		return snapshot.ID, nil
	}

	s.log.Debug("snapshot generated",
		zap.String("member_id", memberID.String()),
		zap.String("period_type", string(periodType)),
		zap.Time("snapshot_date", today),
		zap.Int64("period_applications", snapshot.PeriodApplications),
	)
	return stored.ID, nil
}

func (s *Service) LatestSnapshot(ctx context.Context, memberID snowflake.ID, periodType period.Type) (*analyticsdomain.Snapshot, error) {
	if memberID == 0 {
		return nil, analyticsdomain.ErrInvalidMember
	}
	if !periodType.Valid() {
		return nil, period.ErrInvalidType
	}
	snapshot, err := s.snapshotRepo.Latest(ctx, memberID, periodType)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, analyticsdomain.ErrSnapshotNotFound
	}
	return snapshot, nil
}

type aggregated struct {
	lifetimeTotal int64
	periodTotal   int64
	responses     int64
	interviews    int64
	offers        int64
	streakDays    int
	statusCounts  datatypes.JSONMap
}

// aggregate reduces raw activity into the closed metric set. An unavailable
// activity source contributes zeros rather than failing the snapshot.
func (s *Service) aggregate(ctx context.Context, memberID snowflake.ID, periodStart, periodEnd, now time.Time) (aggregated, error) {
	out := aggregated{statusCounts: datatypes.JSONMap{}}

	lifetime, err := s.activityRepo.CountsInRange(ctx, memberID, nil, nil)
	if err != nil {
		if !errors.Is(err, activitydomain.ErrSourceUnavailable) {
			return out, err
		}
		s.log.Warn("activity source unavailable, counting zero",
			zap.String("member_id", memberID.String()))
		return out, nil
	}
	out.lifetimeTotal = lifetime.Total

	inPeriod, err := s.activityRepo.CountsInRange(ctx, memberID, &periodStart, &periodEnd)
	if err != nil {
		if !errors.Is(err, activitydomain.ErrSourceUnavailable) {
			return out, err
		}
		return out, nil
	}
	out.periodTotal = inPeriod.Total
	for status, count := range inPeriod.ByStatus {
		// Unknown labels pass through verbatim.
		out.statusCounts[status] = count
		if activitydomain.CountsAsResponse(status) {
			out.responses += count
		}
		if activitydomain.CountsAsInterview(status) {
			out.interviews += count
		}
		if status == activitydomain.StatusOffer {
			out.offers += count
		}
	}

	lookbackStart := period.Truncate(now).AddDate(0, 0, -streak.DefaultLookbackDays)
	activeDays, err := s.activityRepo.DistinctActiveDays(ctx, memberID, lookbackStart, now)
	if err != nil {
		if !errors.Is(err, activitydomain.ErrSourceUnavailable) {
			return out, err
		}
		return out, nil
	}
	out.streakDays = streak.Current(activeDays, now)

	return out, nil
}

func applyTrendDeltas(snapshot *analyticsdomain.Snapshot, prior *analyticsdomain.Snapshot) {
	// First snapshot establishes the baseline and reports no trend.
	if prior == nil {
		return
	}
	snapshot.ApplicationsDelta = analyticsdomain.TrendDelta(float64(prior.PeriodApplications), float64(snapshot.PeriodApplications))
	snapshot.ResponseRateDelta = analyticsdomain.TrendDelta(prior.ResponseRate, snapshot.ResponseRate)
	snapshot.InterviewRateDelta = analyticsdomain.TrendDelta(prior.InterviewRate, snapshot.InterviewRate)
	snapshot.OfferRateDelta = analyticsdomain.TrendDelta(prior.OfferRate, snapshot.OfferRate)
}
