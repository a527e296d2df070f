// Package batch runs scheduled snapshot generation across team populations.
// One member's failure never aborts a run; correctness leans on the snapshot
// store's idempotent replace rather than any global lock.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	"github.com/careertrail/careertrail/internal/analytics/runlog"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/events"
	"github.com/careertrail/careertrail/internal/observability/metrics"
	"github.com/careertrail/careertrail/internal/period"
	teamdomain "github.com/careertrail/careertrail/internal/team/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	TeamRepo teamdomain.Repository
	Service  analyticsdomain.Service
	Outbox   *events.Outbox         `optional:"true"`
	RunLog   *runlog.Ledger         `optional:"true"`
	Metrics  *metrics.EngineMetrics `optional:"true"`
	Config   Config                 `optional:"true"`
}

type Worker struct {
	log      *zap.Logger
	clock    clock.Clock
	teamRepo teamdomain.Repository
	service  analyticsdomain.Service
	outbox   *events.Outbox
	runLog   *runlog.Ledger
	metrics  *metrics.EngineMetrics
	cfg      Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		log:      p.Log.Named("analytics.batch"),
		clock:    p.Clock,
		teamRepo: p.TeamRepo,
		service:  p.Service,
		outbox:   p.Outbox,
		runLog:   p.RunLog,
		metrics:  p.Metrics,
		cfg:      p.Config.withDefaults(),
	}
}

// RunForever loops scheduled passes until the context is cancelled.
func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("scheduled snapshot pass failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce generates snapshots for every team and configured period type.
func (w *Worker) RunOnce(ctx context.Context) error {
	teamIDs, err := w.teamRepo.AllTeamIDs(ctx)
	if err != nil {
		return err
	}
	for _, teamID := range teamIDs {
		for _, periodType := range w.cfg.PeriodTypes {
			if _, err := w.RunBatch(ctx, teamID, periodType); err != nil {
				w.log.Warn("batch run failed",
					zap.String("team_id", teamID.String()),
					zap.String("period_type", string(periodType)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// RunBatch generates snapshots for every active member of one team. It
// returns the count of members that succeeded. Per-member failures are
// logged with the member identity and cause and excluded from the count;
// they never propagate.
func (w *Worker) RunBatch(ctx context.Context, teamID snowflake.ID, periodType period.Type) (int, error) {
	// Configuration errors are rejected before touching the population.
	if !periodType.Valid() {
		return 0, period.ErrInvalidType
	}
	if teamID == 0 {
		return 0, teamdomain.ErrInvalidTeam
	}

	ctx, span := otel.Tracer("careertrail/analytics").Start(ctx, "analytics.run_batch")
	span.SetAttributes(
		attribute.String("team_id", teamID.String()),
		attribute.String("period_type", string(periodType)),
	)
	defer span.End()

	runID := w.beginRun(ctx, teamID, periodType)

	memberIDs, err := w.teamRepo.ActiveMemberIDs(ctx, teamID)
	if err != nil {
		w.failRun(ctx, runID, err)
		return 0, err
	}

	started := w.clock.Now()
	var succeeded, failed atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(w.cfg.Concurrency)
	for _, memberID := range memberIDs {
		group.Go(func() error {
			if err := w.generateOne(groupCtx, memberID, teamID, periodType); err != nil {
				failed.Add(1)
				result := "failed"
				if errors.Is(err, context.DeadlineExceeded) {
					result = "timeout"
				}
				w.metrics.IncSnapshotProcessed(result)
				w.log.Warn("member snapshot failed",
					zap.String("member_id", memberID.String()),
					zap.String("team_id", teamID.String()),
					zap.String("period_type", string(periodType)),
					zap.Error(err),
				)
				return nil
			}
			succeeded.Add(1)
			w.metrics.IncSnapshotProcessed("success")
			return nil
		})
	}
	// Worker fns swallow their own errors, so Wait only observes ctx.
	_ = group.Wait()

	elapsed := w.clock.Now().Sub(started)
	w.metrics.ObserveBatchRun(string(periodType), elapsed, int(succeeded.Load()), int(failed.Load()))
	w.completeRun(ctx, runID, int(succeeded.Load()), int(failed.Load()))
	w.publishRunEvent(ctx, teamID, periodType, int(succeeded.Load()), int(failed.Load()))

	w.log.Info("batch run completed",
		zap.String("team_id", teamID.String()),
		zap.String("period_type", string(periodType)),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", elapsed),
	)
	return int(succeeded.Load()), nil
}

func (w *Worker) generateOne(ctx context.Context, memberID, teamID snowflake.ID, periodType period.Type) error {
	memberCtx, cancel := context.WithTimeout(ctx, w.cfg.MemberTimeout)
	defer cancel()
	_, err := w.service.GenerateSnapshot(memberCtx, memberID, teamID, periodType)
	return err
}

func (w *Worker) beginRun(ctx context.Context, teamID snowflake.ID, periodType period.Type) snowflake.ID {
	if w.runLog == nil {
		return 0
	}
	runID, err := w.runLog.Begin(ctx, teamID, periodType, period.Truncate(w.clock.Now()))
	if err != nil {
		w.log.Warn("failed to record batch run start", zap.Error(err))
		return 0
	}
	return runID
}

func (w *Worker) completeRun(ctx context.Context, runID snowflake.ID, succeeded, failed int) {
	if w.runLog == nil || runID == 0 {
		return
	}
	if err := w.runLog.Complete(ctx, runID, succeeded, failed); err != nil {
		w.log.Warn("failed to record batch run completion", zap.Error(err))
	}
}

func (w *Worker) failRun(ctx context.Context, runID snowflake.ID, cause error) {
	if w.runLog == nil || runID == 0 {
		return
	}
	if err := w.runLog.Fail(ctx, runID, cause); err != nil {
		w.log.Warn("failed to record batch run failure", zap.Error(err))
	}
}

func (w *Worker) publishRunEvent(ctx context.Context, teamID snowflake.ID, periodType period.Type, succeeded, failed int) {
	if w.outbox == nil {
		return
	}
	day := period.Truncate(w.clock.Now()).Format("2006-01-02")
	err := w.outbox.Publish(ctx, events.Event{
		TeamID: teamID,
		Type:   events.EventSnapshotBatchCompleted,
		Payload: events.BatchCompletedPayload{
			PeriodType:   string(periodType),
			SnapshotDate: day,
			Succeeded:    succeeded,
			Failed:       failed,
		}.ToMap(),
		DedupeKey: fmt.Sprintf("snapshot_batch|%s|%s", periodType, day),
	})
	if err != nil {
		w.log.Warn("failed to publish batch event",
			zap.String("team_id", teamID.String()),
			zap.Error(err),
		)
	}
}
