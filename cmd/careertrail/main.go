package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/careertrail/careertrail/internal/activity"
	"github.com/careertrail/careertrail/internal/analytics"
	"github.com/careertrail/careertrail/internal/analytics/batch"
	"github.com/careertrail/careertrail/internal/clock"
	"github.com/careertrail/careertrail/internal/config"
	"github.com/careertrail/careertrail/internal/events"
	"github.com/careertrail/careertrail/internal/fingerprint"
	"github.com/careertrail/careertrail/internal/migration"
	"github.com/careertrail/careertrail/internal/observability"
	"github.com/careertrail/careertrail/internal/profile"
	"github.com/careertrail/careertrail/internal/research"
	"github.com/careertrail/careertrail/internal/seed"
	"github.com/careertrail/careertrail/internal/server"
	"github.com/careertrail/careertrail/internal/team"
	"github.com/careertrail/careertrail/internal/vcache"
	"github.com/careertrail/careertrail/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if !cfg.IsProduction() {
				return seed.EnsureDemoData(conn)
			}
			return nil
		}),

		// Source data views.
		profile.Module,
		activity.Module,
		team.Module,

		// Derived analytics engine.
		fingerprint.Module,
		analytics.Module,
		vcache.Module,
		research.Module,
		events.Module,
		batch.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
