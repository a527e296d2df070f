// Package runlog records every batch snapshot run in the snapshot_runs table
// so operators can audit when each team/period combination last completed.
package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/period"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Ledger struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewLedger(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, clk clock.Clock) *Ledger {
	return &Ledger{
		db:    db,
		log:   log.Named("runlog"),
		genID: genID,
		clock: clk,
	}
}

// Begin records the start of a batch run and returns its id.
func (l *Ledger) Begin(ctx context.Context, teamID snowflake.ID, periodType period.Type, snapshotDate time.Time) (snowflake.ID, error) {
	runID := l.genID.Generate()
	err := l.db.WithContext(ctx).Exec(
		`INSERT INTO snapshot_runs (id, team_id, period_type, snapshot_date, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		teamID,
		periodType,
		snapshotDate,
		StatusRunning,
		l.clock.Now(),
	).Error
	if err != nil {
		return 0, err
	}
	return runID, nil
}

// Complete marks a run finished with its success and failure counts.
func (l *Ledger) Complete(ctx context.Context, runID snowflake.ID, succeeded, failed int) error {
	return l.db.WithContext(ctx).Exec(
		`UPDATE snapshot_runs
		 SET status = ?, succeeded = ?, failed = ?,
		     finished_at = COALESCE(finished_at, ?)
		 WHERE id = ? AND status = ?`,
		StatusCompleted,
		succeeded,
		failed,
		l.clock.Now(),
		runID,
		StatusRunning,
	).Error
}

// Fail marks a run aborted before per-member work could finish.
func (l *Ledger) Fail(ctx context.Context, runID snowflake.ID, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return l.db.WithContext(ctx).Exec(
		`UPDATE snapshot_runs
		 SET status = ?, last_error = ?,
		     finished_at = COALESCE(finished_at, ?)
		 WHERE id = ? AND status = ?`,
		StatusFailed,
		message,
		l.clock.Now(),
		runID,
		StatusRunning,
	).Error
}

// LastCompleted returns the finish time of the most recent completed run for
// a team and period type, or zero when none exists.
func (l *Ledger) LastCompleted(ctx context.Context, teamID snowflake.ID, periodType period.Type) (time.Time, error) {
	var finishedAt sql.NullTime
	err := l.db.WithContext(ctx).Raw(
		`SELECT finished_at
		 FROM snapshot_runs
		 WHERE team_id = ? AND period_type = ? AND status = ?
		 ORDER BY finished_at DESC
		 LIMIT 1`,
		teamID,
		periodType,
		StatusCompleted,
	).Scan(&finishedAt).Error
	if err != nil {
		return time.Time{}, err
	}
	if !finishedAt.Valid {
		return time.Time{}, nil
	}
	return finishedAt.Time, nil
}
