// Package seed populates a development database with a small demo team so
// the engine has data to aggregate out of the box. Never runs in production.
package seed

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	activitydomain "github.com/careertrail/careertrail/internal/activity/domain"
	profiledomain "github.com/careertrail/careertrail/internal/profile/domain"
	teamdomain "github.com/careertrail/careertrail/internal/team/domain"
)

const demoTeamID = snowflake.ID(1)

// EnsureDemoData inserts a demo team with one member, a profile and a week of
// application activity. Idempotent: an existing demo team short-circuits.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	var count int64
	if err := db.Model(&teamdomain.TeamMember{}).
		Where("team_id = ?", demoTeamID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(63)
	if err != nil {
		return err
	}

	memberID := node.Generate()
	now := time.Now().UTC()

	return db.Transaction(func(tx *gorm.DB) error {
		member := teamdomain.TeamMember{
			ID:       node.Generate(),
			TeamID:   demoTeamID,
			MemberID: memberID,
			Status:   teamdomain.MemberStatusActive,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		profile := profiledomain.Profile{
			ID:         node.Generate(),
			MemberID:   memberID,
			Headline:   "Backend engineer",
			TargetRole: "Senior Backend Engineer",
			Location:   "Remote",
			Skills:     datatypes.JSONMap{"go": "advanced", "sql": "intermediate"},
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		applications := []struct {
			company string
			role    string
			status  string
			daysAgo int
		}{
			{"Acme", "Backend Engineer", activitydomain.StatusInterview, 6},
			{"Globex", "Platform Engineer", activitydomain.StatusScreening, 4},
			{"Initech", "Go Developer", activitydomain.StatusApplied, 2},
			{"Umbrella", "Backend Engineer", activitydomain.StatusRejected, 1},
			{"Hooli", "Infrastructure Engineer", activitydomain.StatusApplied, 0},
		}
		for _, app := range applications {
			event := activitydomain.ApplicationEvent{
				ID:        node.Generate(),
				MemberID:  memberID,
				TeamID:    demoTeamID,
				Company:   app.company,
				Role:      app.role,
				Status:    app.status,
				AppliedAt: now.AddDate(0, 0, -app.daysAgo),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
