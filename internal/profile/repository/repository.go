package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	profiledomain "github.com/careertrail/careertrail/internal/profile/domain"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// Provide constructs the gorm-backed profile reader.
func Provide(db *gorm.DB) profiledomain.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByMember(ctx context.Context, memberID snowflake.ID) (*profiledomain.Profile, error) {
	if memberID == 0 {
		return nil, profiledomain.ErrInvalidMember
	}
	var profile profiledomain.Profile
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, member_id, headline, summary, target_role, location, skills, created_at, updated_at
		 FROM profiles
		 WHERE member_id = ?
		 LIMIT 1`,
		memberID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}
