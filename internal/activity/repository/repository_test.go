package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (activitydomain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&activitydomain.ApplicationEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return Provide(db), db, node
}

func insert(t *testing.T, db *gorm.DB, node *snowflake.Node, memberID snowflake.ID, status string, appliedAt time.Time) {
	t.Helper()
	event := activitydomain.ApplicationEvent{
		ID:        node.Generate(),
		MemberID:  memberID,
		Company:   "Acme",
		Status:    status,
		AppliedAt: appliedAt,
		CreatedAt: appliedAt,
		UpdatedAt: appliedAt,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("insert event: %v", err)
	}
}

func TestCountsInRangeGroupsByStatus(t *testing.T) {
	repo, db, node := setup(t)
	member := snowflake.ID(50)
	base := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

	insert(t, db, node, member, activitydomain.StatusApplied, base)
	insert(t, db, node, member, activitydomain.StatusApplied, base.Add(time.Hour))
	insert(t, db, node, member, activitydomain.StatusInterview, base.AddDate(0, 0, 1))
	// Outside the range below.
	insert(t, db, node, member, activitydomain.StatusApplied, base.AddDate(0, 0, -10))

	start := base
	end := base.AddDate(0, 0, 2)
	counts, err := repo.CountsInRange(context.Background(), member, &start, &end)
	if err != nil {
		t.Fatalf("counts in range: %v", err)
	}
	if counts.Total != 3 {
		t.Fatalf("expected total 3, got %d", counts.Total)
	}
	if counts.ByStatus[activitydomain.StatusApplied] != 2 {
		t.Fatalf("expected 2 applied, got %d", counts.ByStatus[activitydomain.StatusApplied])
	}
	if counts.ByStatus[activitydomain.StatusInterview] != 1 {
		t.Fatalf("expected 1 interview, got %d", counts.ByStatus[activitydomain.StatusInterview])
	}
}

func TestCountsInRangeEndBoundIsInclusiveDate(t *testing.T) {
	repo, db, node := setup(t)
	member := snowflake.ID(51)
	endDay := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	// Late on the end date still counts; the next morning does not.
	insert(t, db, node, member, activitydomain.StatusApplied, endDay.Add(23*time.Hour))
	insert(t, db, node, member, activitydomain.StatusApplied, endDay.AddDate(0, 0, 1).Add(8*time.Hour))

	start := endDay.AddDate(0, 0, -6)
	counts, err := repo.CountsInRange(context.Background(), member, &start, &endDay)
	if err != nil {
		t.Fatalf("counts in range: %v", err)
	}
	if counts.Total != 1 {
		t.Fatalf("expected 1 event inside inclusive end date, got %d", counts.Total)
	}
}

func TestCountsInRangeOpenBounds(t *testing.T) {
	repo, db, node := setup(t)
	member := snowflake.ID(52)
	base := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

	insert(t, db, node, member, activitydomain.StatusApplied, base.AddDate(-1, 0, 0))
	insert(t, db, node, member, activitydomain.StatusOffer, base)

	counts, err := repo.CountsInRange(context.Background(), member, nil, nil)
	if err != nil {
		t.Fatalf("lifetime counts: %v", err)
	}
	if counts.Total != 2 {
		t.Fatalf("expected lifetime total 2, got %d", counts.Total)
	}
}

func TestDistinctActiveDaysDeduplicates(t *testing.T) {
	repo, db, node := setup(t)
	member := snowflake.ID(53)
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	insert(t, db, node, member, activitydomain.StatusApplied, day.Add(9*time.Hour))
	insert(t, db, node, member, activitydomain.StatusApplied, day.Add(17*time.Hour))
	insert(t, db, node, member, activitydomain.StatusApplied, day.AddDate(0, 0, -1).Add(12*time.Hour))

	days, err := repo.DistinctActiveDays(context.Background(), member, day.AddDate(0, 0, -7), day)
	if err != nil {
		t.Fatalf("distinct active days: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 distinct days, got %d", len(days))
	}
	if !days[0].Equal(day) {
		t.Fatalf("expected most recent day first, got %v", days[0])
	}
}

func TestMissingTableMapsToSourceUnavailable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := Provide(db)

	_, err = repo.CountsInRange(context.Background(), 1, nil, nil)
	if !errors.Is(err, activitydomain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestInvalidMemberRejected(t *testing.T) {
	repo, _, _ := setup(t)

	if _, err := repo.CountsInRange(context.Background(), 0, nil, nil); !errors.Is(err, activitydomain.ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember, got %v", err)
	}
	if _, err := repo.ListByMember(context.Background(), 0, nil); !errors.Is(err, activitydomain.ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember, got %v", err)
	}
}
