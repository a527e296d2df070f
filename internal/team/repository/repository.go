package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	teamdomain "github.com/careertrail/careertrail/internal/team/domain"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// Provide constructs the gorm-backed team membership reader.
func Provide(db *gorm.DB) teamdomain.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ActiveMemberIDs(ctx context.Context, teamID snowflake.ID) ([]snowflake.ID, error) {
	if teamID == 0 {
		return nil, teamdomain.ErrInvalidTeam
	}
	var memberIDs []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT member_id
		 FROM team_members
		 WHERE team_id = ? AND status = ?
		 ORDER BY member_id`,
		teamID,
		teamdomain.MemberStatusActive,
	).Scan(&memberIDs).Error
	if err != nil {
		return nil, err
	}
	return memberIDs, nil
}

func (r *gormRepository) TeamByMember(ctx context.Context, memberID snowflake.ID) (snowflake.ID, error) {
	if memberID == 0 {
		return 0, nil
	}
	var teamIDs []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT team_id
		 FROM team_members
		 WHERE member_id = ? AND status = ?
		 ORDER BY team_id
		 LIMIT 1`,
		memberID,
		teamdomain.MemberStatusActive,
	).Scan(&teamIDs).Error
	if err != nil {
		return 0, err
	}
	if len(teamIDs) == 0 {
		return 0, nil
	}
	return teamIDs[0], nil
}

func (r *gormRepository) AllTeamIDs(ctx context.Context) ([]snowflake.ID, error) {
	var teamIDs []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT team_id
		 FROM team_members
		 WHERE status = ?
		 ORDER BY team_id`,
		teamdomain.MemberStatusActive,
	).Scan(&teamIDs).Error
	if err != nil {
		return nil, err
	}
	return teamIDs, nil
}
