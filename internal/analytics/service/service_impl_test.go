package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	activityrepo "github.com/careertrail/careertrail/internal/activity/repository"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	analyticsrepo "github.com/careertrail/careertrail/internal/analytics/repository"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/period"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Wednesday, so the weekly bucket spans Mar 9 (Mon) .. Mar 15 (Sun).
var testToday = time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T, withActivity bool) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	models := []any{&analyticsdomain.Snapshot{}}
	if withActivity {
		models = append(models, &activitydomain.ApplicationEvent{})
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var testServiceNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}()

func newTestService(t *testing.T, db *gorm.DB, now time.Time) *Service {
	t.Helper()
	node := testServiceNode
	svc := NewService(ServiceParam{
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clock.Fixed(now),
		ActivityRepo: activityrepo.Provide(db),
		SnapshotRepo: analyticsrepo.ProvideSnapshotStore(db),
	})
	return svc.(*Service)
}

// statusCount reads a JSON status count, which round-trips through the DB as
// a float64.
func statusCount(snapshot *analyticsdomain.Snapshot, status string) int64 {
	switch value := snapshot.StatusCounts[status].(type) {
	case int64:
		return value
	case float64:
		return int64(value)
	case json.Number:
		parsed, _ := value.Int64()
		return parsed
	default:
		return 0
	}
}

var insertEventNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}()

func insertEvent(t *testing.T, db *gorm.DB, memberID snowflake.ID, status string, appliedAt time.Time) {
	t.Helper()
	event := activitydomain.ApplicationEvent{
		ID:        insertEventNode.Generate(),
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

func TestGenerateSnapshotWeeklyCounts(t *testing.T) {
	db := setupTestDB(t, true)
	member := snowflake.ID(100)

	for i := 0; i < 3; i++ {
		insertEvent(t, db, member, activitydomain.StatusApplied, testToday.Add(time.Duration(i)*time.Hour))
	}
	for i := 0; i < 2; i++ {
		insertEvent(t, db, member, activitydomain.StatusApplied, testToday.AddDate(0, 0, -8))
	}

	svc := newTestService(t, db, testToday)
	if _, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeWeekly); err != nil {
		t.Fatalf("generate: %v", err)
	}

	snapshot, err := svc.LatestSnapshot(context.Background(), member, period.TypeWeekly)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snapshot.PeriodApplications != 3 {
		t.Fatalf("expected 3 applications this week, got %d", snapshot.PeriodApplications)
	}
	if snapshot.TotalApplications != 5 {
		t.Fatalf("expected lifetime total 5, got %d", snapshot.TotalApplications)
	}
	if snapshot.ApplicationsDelta != 0 {
		t.Fatalf("first snapshot must report no trend, got %v", snapshot.ApplicationsDelta)
	}
	if got := statusCount(snapshot, activitydomain.StatusApplied); got != 3 {
		t.Fatalf("expected status count 3 for applied, got %v", got)
	}
}

func TestGenerateSnapshotTrendAgainstPriorWeek(t *testing.T) {
	db := setupTestDB(t, true)
	member := snowflake.ID(101)

	for i := 0; i < 3; i++ {
		insertEvent(t, db, member, activitydomain.StatusApplied, testToday)
	}
	svc := newTestService(t, db, testToday)
	if _, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeWeekly); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// One week later, no new activity: 0 against a prior of 3.
	later := newTestService(t, db, testToday.AddDate(0, 0, 7))
	if _, err := later.GenerateSnapshot(context.Background(), member, 0, period.TypeWeekly); err != nil {
		t.Fatalf("second run: %v", err)
	}

	snapshot, err := later.LatestSnapshot(context.Background(), member, period.TypeWeekly)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snapshot.PeriodApplications != 0 {
		t.Fatalf("expected 0 applications in new week, got %d", snapshot.PeriodApplications)
	}
	if snapshot.ApplicationsDelta != -100 {
		t.Fatalf("expected applications delta -100, got %v", snapshot.ApplicationsDelta)
	}
}

func TestGenerateSnapshotIdempotentReplace(t *testing.T) {
	db := setupTestDB(t, true)
	member := snowflake.ID(102)
	insertEvent(t, db, member, activitydomain.StatusApplied, testToday)

	svc := newTestService(t, db, testToday)
	first, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeDaily)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	insertEvent(t, db, member, activitydomain.StatusInterview, testToday.Add(time.Hour))
	second, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeDaily)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second {
		t.Fatalf("replace must keep the stored row id: %v vs %v", first, second)
	}

	var count int64
	if err := db.Model(&analyticsdomain.Snapshot{}).Where("member_id = ?", member).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one snapshot row, got %d", count)
	}

	snapshot, err := svc.LatestSnapshot(context.Background(), member, period.TypeDaily)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snapshot.PeriodApplications != 2 {
		t.Fatalf("replace must refresh metrics, got %d applications", snapshot.PeriodApplications)
	}
}

func TestGenerateSnapshotRates(t *testing.T) {
	db := setupTestDB(t, true)
	member := snowflake.ID(103)

	insertEvent(t, db, member, activitydomain.StatusApplied, testToday)
	insertEvent(t, db, member, activitydomain.StatusRejected, testToday)
	insertEvent(t, db, member, activitydomain.StatusInterview, testToday)
	insertEvent(t, db, member, activitydomain.StatusOffer, testToday)

	svc := newTestService(t, db, testToday)
	if _, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeDaily); err != nil {
		t.Fatalf("generate: %v", err)
	}
	snapshot, err := svc.LatestSnapshot(context.Background(), member, period.TypeDaily)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snapshot.ResponseRate != 75 {
		t.Fatalf("expected response rate 75, got %v", snapshot.ResponseRate)
	}
	if snapshot.InterviewRate != 50 {
		t.Fatalf("expected interview rate 50, got %v", snapshot.InterviewRate)
	}
	if snapshot.OfferRate != 25 {
		t.Fatalf("expected offer rate 25, got %v", snapshot.OfferRate)
	}
}

func TestGenerateSnapshotPreservesUnknownStatuses(t *testing.T) {
	db := setupTestDB(t, true)
	member := snowflake.ID(104)
	insertEvent(t, db, member, "ghosted_after_onsite", testToday)

	svc := newTestService(t, db, testToday)
	if _, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeDaily); err != nil {
		t.Fatalf("generate: %v", err)
	}
	snapshot, err := svc.LatestSnapshot(context.Background(), member, period.TypeDaily)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got := statusCount(snapshot, "ghosted_after_onsite"); got != 1 {
		t.Fatalf("unknown status must be preserved verbatim, got %v", got)
	}
	if snapshot.ResponseRate != 0 {
		t.Fatalf("unknown status must not count as a response, got %v", snapshot.ResponseRate)
	}
}

func TestGenerateSnapshotStreak(t *testing.T) {
	db := setupTestDB(t, true)
	member := snowflake.ID(105)

	insertEvent(t, db, member, activitydomain.StatusApplied, testToday)
	insertEvent(t, db, member, activitydomain.StatusApplied, testToday.AddDate(0, 0, -1))
	insertEvent(t, db, member, activitydomain.StatusApplied, testToday.AddDate(0, 0, -3))

	svc := newTestService(t, db, testToday)
	if _, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeDaily); err != nil {
		t.Fatalf("generate: %v", err)
	}
	snapshot, err := svc.LatestSnapshot(context.Background(), member, period.TypeDaily)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snapshot.ActiveStreakDays != 2 {
		t.Fatalf("expected streak 2, got %d", snapshot.ActiveStreakDays)
	}
}

func TestGenerateSnapshotRejectsUnknownPeriodType(t *testing.T) {
	db := setupTestDB(t, true)
	svc := newTestService(t, db, testToday)
	_, err := svc.GenerateSnapshot(context.Background(), 1, 0, period.Type("quarterly"))
	if !errors.Is(err, period.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestGenerateSnapshotMissingActivityTable(t *testing.T) {
	db := setupTestDB(t, false)
	member := snowflake.ID(106)

	svc := newTestService(t, db, testToday)
	if _, err := svc.GenerateSnapshot(context.Background(), member, 0, period.TypeWeekly); err != nil {
		t.Fatalf("missing activity source must degrade, got %v", err)
	}
	snapshot, err := svc.LatestSnapshot(context.Background(), member, period.TypeWeekly)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snapshot.TotalApplications != 0 || snapshot.PeriodApplications != 0 {
		t.Fatalf("expected zero contribution, got %+v", snapshot)
	}
}
