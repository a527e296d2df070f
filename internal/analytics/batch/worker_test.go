package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/period"
	"go.uber.org/zap"
)

type stubTeamRepo struct {
	members map[snowflake.ID][]snowflake.ID
}

func (s *stubTeamRepo) ActiveMemberIDs(ctx context.Context, teamID snowflake.ID) ([]snowflake.ID, error) {
	return s.members[teamID], nil
}

func (s *stubTeamRepo) AllTeamIDs(ctx context.Context) ([]snowflake.ID, error) {
	teams := make([]snowflake.ID, 0, len(s.members))
	for id := range s.members {
		teams = append(teams, id)
	}
	return teams, nil
}

func (s *stubTeamRepo) TeamByMember(ctx context.Context, memberID snowflake.ID) (snowflake.ID, error) {
	for teamID, members := range s.members {
		for _, id := range members {
			if id == memberID {
				return teamID, nil
			}
		}
	}
	return 0, nil
}

type stubService struct {
	mu        sync.Mutex
	failFor   map[snowflake.ID]error
	generated []snowflake.ID
	slowFor   map[snowflake.ID]time.Duration
}

func (s *stubService) GenerateSnapshot(ctx context.Context, memberID, teamID snowflake.ID, periodType period.Type) (snowflake.ID, error) {
	if delay, ok := s.slowFor[memberID]; ok {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if err, ok := s.failFor[memberID]; ok {
		return 0, err
	}
	s.mu.Lock()
	s.generated = append(s.generated, memberID)
	s.mu.Unlock()
	return memberID + 1000, nil
}

func (s *stubService) LatestSnapshot(ctx context.Context, memberID snowflake.ID, periodType period.Type) (*analyticsdomain.Snapshot, error) {
	return nil, analyticsdomain.ErrSnapshotNotFound
}

func newTestWorker(t *testing.T, teams *stubTeamRepo, svc *stubService, cfg Config) *Worker {
	t.Helper()
	return NewWorker(Params{
		Log:      zap.NewNop(),
		Clock:    clock.SystemClock{},
		TeamRepo: teams,
		Service:  svc,
		Config:   cfg,
	})
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	members := []snowflake.ID{1, 2, 3, 4, 5}
	teams := &stubTeamRepo{members: map[snowflake.ID][]snowflake.ID{10: members}}
	svc := &stubService{failFor: map[snowflake.ID]error{3: errors.New("boom")}}

	worker := newTestWorker(t, teams, svc, Config{})
	succeeded, err := worker.RunBatch(context.Background(), 10, period.TypeWeekly)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if succeeded != 4 {
		t.Fatalf("expected 4 successes, got %d", succeeded)
	}
	for _, memberID := range svc.generated {
		if memberID == 3 {
			t.Fatalf("failed member must not have a snapshot written")
		}
	}
}

func TestRunBatchRejectsUnknownPeriodType(t *testing.T) {
	teams := &stubTeamRepo{members: map[snowflake.ID][]snowflake.ID{10: {1}}}
	svc := &stubService{}

	worker := newTestWorker(t, teams, svc, Config{})
	_, err := worker.RunBatch(context.Background(), 10, period.Type("hourly"))
	if !errors.Is(err, period.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if len(svc.generated) != 0 {
		t.Fatalf("no work should start on a configuration error")
	}
}

func TestRunBatchMemberTimeout(t *testing.T) {
	teams := &stubTeamRepo{members: map[snowflake.ID][]snowflake.ID{10: {1, 2}}}
	svc := &stubService{slowFor: map[snowflake.ID]time.Duration{2: time.Second}}

	worker := newTestWorker(t, teams, svc, Config{MemberTimeout: 20 * time.Millisecond})
	succeeded, err := worker.RunBatch(context.Background(), 10, period.TypeDaily)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if succeeded != 1 {
		t.Fatalf("expected slow member to time out, got %d successes", succeeded)
	}
}

func TestRunBatchEmptyTeam(t *testing.T) {
	teams := &stubTeamRepo{members: map[snowflake.ID][]snowflake.ID{}}
	svc := &stubService{}

	worker := newTestWorker(t, teams, svc, Config{})
	succeeded, err := worker.RunBatch(context.Background(), 10, period.TypeMonthly)
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if succeeded != 0 {
		t.Fatalf("expected 0 successes for empty team, got %d", succeeded)
	}
}
