package batch

import (
	"time"

	appconfig "github.com/careertrail/careertrail/internal/config"
	"github.com/careertrail/careertrail/internal/period"
)

// Config controls the scheduled snapshot batch worker.
type Config struct {
	// PollInterval is the pause between full scheduled passes.
	PollInterval time.Duration
	// Concurrency bounds the worker pool within one team's run.
	Concurrency int
	// MemberTimeout caps one member's snapshot so a slow member cannot
	// stall the run.
	MemberTimeout time.Duration
	// PeriodTypes are the bucket granularities generated per pass.
	PeriodTypes []period.Type
}

func DefaultConfig() Config {
	return Config{
		PollInterval:  24 * time.Hour,
		Concurrency:   4,
		MemberTimeout: 30 * time.Second,
		PeriodTypes:   []period.Type{period.TypeDaily, period.TypeWeekly, period.TypeMonthly},
	}
}

// FromAppConfig maps the process configuration onto the worker's knobs.
func FromAppConfig(cfg appconfig.Config) Config {
	return Config{
		PollInterval:  cfg.Batch.PollInterval,
		Concurrency:   cfg.Batch.Concurrency,
		MemberTimeout: cfg.Batch.MemberTimeout,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.MemberTimeout <= 0 {
		c.MemberTimeout = defaults.MemberTimeout
	}
	if len(c.PeriodTypes) == 0 {
		c.PeriodTypes = defaults.PeriodTypes
	}
	return c
}
