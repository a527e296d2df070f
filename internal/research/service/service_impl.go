package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	"github.com/careertrail/careertrail/internal/events"
	"github.com/careertrail/careertrail/internal/period"
	researchdomain "github.com/careertrail/careertrail/internal/research/domain"
	teamdomain "github.com/careertrail/careertrail/internal/team/domain"
	"github.com/careertrail/careertrail/internal/vcache"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// positioningTTL is the application-controlled expiry for positioning
// artifacts; the fingerprint check usually invalidates well before it.
const positioningTTL = 24 * time.Hour

type Service struct {
	log *zap.Logger

	cache        *vcache.Store
	activityRepo activitydomain.Repository
	snapshotRepo analyticsdomain.SnapshotRepository
	teamRepo     teamdomain.Repository
	outbox       *events.Outbox
}

type ServiceParam struct {
	fx.In

	Log          *zap.Logger
	Cache        *vcache.Store
	ActivityRepo activitydomain.Repository
	SnapshotRepo analyticsdomain.SnapshotRepository
	TeamRepo     teamdomain.Repository              `optional:"true"`
	Outbox       *events.Outbox                     `optional:"true"`
}

func NewService(p ServiceParam) researchdomain.Service {
	return &Service{
		log: p.Log.Named("research.service"),

		cache:        p.Cache,
		activityRepo: p.ActivityRepo,
		snapshotRepo: p.SnapshotRepo,
		teamRepo:     p.TeamRepo,
		outbox:       p.Outbox,
	}
}

func (s *Service) CompanyResearch(ctx context.Context, memberID snowflake.ID, company string) (datatypes.JSONMap, error) {
	if memberID == 0 {
		return nil, researchdomain.ErrInvalidMember
	}
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, researchdomain.ErrInvalidCompany
	}

	subject := vcache.Subject{MemberID: memberID, Qualifier: "company:" + companySlug(company)}
	return s.cache.GetOrCompute(ctx, subject, researchdomain.KindCompanyResearch, vcache.Volatile(),
		func(ctx context.Context) (datatypes.JSONMap, error) {
			return s.computeCompanyResearch(ctx, memberID, company)
		})
}

func (s *Service) Positioning(ctx context.Context, memberID snowflake.ID) (datatypes.JSONMap, error) {
	if memberID == 0 {
		return nil, researchdomain.ErrInvalidMember
	}

	subject := vcache.Subject{MemberID: memberID}
	return s.cache.GetOrCompute(ctx, subject, researchdomain.KindPositioning, vcache.Derived(positioningTTL),
		func(ctx context.Context) (datatypes.JSONMap, error) {
			return s.computePositioning(ctx, memberID)
		})
}

func (s *Service) RefreshPositioning(ctx context.Context, memberID snowflake.ID) error {
	if memberID == 0 {
		return researchdomain.ErrInvalidMember
	}
	if err := s.cache.Invalidate(ctx, vcache.Subject{MemberID: memberID}, researchdomain.KindPositioning); err != nil {
		return err
	}
	s.publishRefreshEvent(ctx, memberID)
	return nil
}

// publishRefreshEvent announces the refresh on the outbox. A publish failure
// never fails the refresh itself.
func (s *Service) publishRefreshEvent(ctx context.Context, memberID snowflake.ID) {
	if s.outbox == nil || s.teamRepo == nil {
		return
	}
	teamID, err := s.teamRepo.TeamByMember(ctx, memberID)
	if err != nil || teamID == 0 {
		s.log.Warn("skipping positioning refresh event, no team resolved",
			zap.String("member_id", memberID.String()),
			zap.Error(err),
		)
		return
	}
	err = s.outbox.Publish(ctx, events.Event{
		TeamID:  teamID,
		Type:    events.EventPositioningRefreshed,
		Payload: events.PositioningRefreshedPayload{MemberID: memberID.String()}.ToMap(),
	})
	if err != nil {
		s.log.Warn("failed to publish positioning refresh event",
			zap.String("member_id", memberID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) computeCompanyResearch(ctx context.Context, memberID snowflake.ID, company string) (datatypes.JSONMap, error) {
	records, err := s.activityRepo.ListByMember(ctx, memberID, nil)
	if err != nil {
		if !errors.Is(err, activitydomain.ErrSourceUnavailable) {
			return nil, err
		}
		records = nil
	}

	var applications, responses, interviews int64
	var lastApplied *time.Time
	statuses := datatypes.JSONMap{}
	for _, event := range records {
		if !strings.EqualFold(strings.TrimSpace(event.Company), company) {
			continue
		}
		applications++
		if current, ok := statuses[event.Status].(int64); ok {
			statuses[event.Status] = current + 1
		} else {
			statuses[event.Status] = int64(1)
		}
		if activitydomain.CountsAsResponse(event.Status) {
			responses++
		}
		if activitydomain.CountsAsInterview(event.Status) {
			interviews++
		}
		if lastApplied == nil || event.AppliedAt.After(*lastApplied) {
			appliedAt := event.AppliedAt
			lastApplied = &appliedAt
		}
	}

	result := datatypes.JSONMap{
		"company":       company,
		"applications":  applications,
		"responses":     responses,
		"interviews":    interviews,
		"response_rate": analyticsdomain.Rate(responses, applications),
		"statuses":      statuses,
	}
	if lastApplied != nil {
		result["last_applied_at"] = lastApplied.UTC().Format(time.RFC3339)
	}
	return result, nil
}

func (s *Service) computePositioning(ctx context.Context, memberID snowflake.ID) (datatypes.JSONMap, error) {
	lifetime, err := s.activityRepo.CountsInRange(ctx, memberID, nil, nil)
	if err != nil && !errors.Is(err, activitydomain.ErrSourceUnavailable) {
		return nil, err
	}

	result := datatypes.JSONMap{
		"total_applications": lifetime.Total,
	}

	for _, pt := range []period.Type{period.TypeWeekly, period.TypeMonthly} {
		snapshot, err := s.snapshotRepo.Latest(ctx, memberID, pt)
		if err != nil {
			return nil, err
		}
		if snapshot == nil {
			continue
		}
		result[string(pt)] = datatypes.JSONMap{
			"applications":       snapshot.PeriodApplications,
			"response_rate":      snapshot.ResponseRate,
			"interview_rate":     snapshot.InterviewRate,
			"offer_rate":         snapshot.OfferRate,
			"active_streak_days": snapshot.ActiveStreakDays,
			"applications_delta": snapshot.ApplicationsDelta,
		}
	}
	return result, nil
}

func companySlug(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	return strings.Join(strings.Fields(slug), "-")
}
