package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	teamdomain "github.com/careertrail/careertrail/internal/team/domain"
)

func setup(t *testing.T) (teamdomain.Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&teamdomain.TeamMember{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return Provide(db), db
}

func insertMember(t *testing.T, db *gorm.DB, id, teamID, memberID snowflake.ID, status string) {
	t.Helper()
	now := time.Now().UTC()
	member := teamdomain.TeamMember{
		ID:        id,
		TeamID:    teamID,
		MemberID:  memberID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("insert member: %v", err)
	}
}

func TestActiveMemberIDsFiltersStatus(t *testing.T) {
	repo, db := setup(t)
	insertMember(t, db, 1, 10, 42, teamdomain.MemberStatusActive)
	insertMember(t, db, 2, 10, 41, teamdomain.MemberStatusActive)
	insertMember(t, db, 3, 10, 43, teamdomain.MemberStatusArchived)

	members, err := repo.ActiveMemberIDs(context.Background(), 10)
	if err != nil {
		t.Fatalf("active members: %v", err)
	}
	if len(members) != 2 || members[0] != 41 || members[1] != 42 {
		t.Fatalf("expected [41 42], got %v", members)
	}
}

func TestTeamByMember(t *testing.T) {
	repo, db := setup(t)
	insertMember(t, db, 1, 20, 42, teamdomain.MemberStatusActive)
	insertMember(t, db, 2, 10, 42, teamdomain.MemberStatusActive)
	insertMember(t, db, 3, 5, 42, teamdomain.MemberStatusArchived)

	teamID, err := repo.TeamByMember(context.Background(), 42)
	if err != nil {
		t.Fatalf("team by member: %v", err)
	}
	if teamID != 10 {
		t.Fatalf("expected lowest active team 10, got %d", teamID)
	}
}

func TestTeamByMemberWithoutMembership(t *testing.T) {
	repo, _ := setup(t)
	teamID, err := repo.TeamByMember(context.Background(), 99)
	if err != nil {
		t.Fatalf("team by member: %v", err)
	}
	if teamID != 0 {
		t.Fatalf("expected zero team, got %d", teamID)
	}
}
