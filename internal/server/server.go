// Package server exposes the engine over HTTP: read endpoints for snapshots
// and derived artifacts, an operator trigger for batch runs, health and
// metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/careertrail/careertrail/internal/analytics/batch"
	analyticsdomain "github.com/careertrail/careertrail/internal/analytics/domain"
	"github.com/careertrail/careertrail/internal/config"
	"github.com/careertrail/careertrail/internal/observability/logger"
	"github.com/careertrail/careertrail/internal/observability/metrics"
	"github.com/careertrail/careertrail/internal/observability/tracing"
	researchdomain "github.com/careertrail/careertrail/internal/research/domain"
)

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB
	engine *gin.Engine

	analyticsSvc analyticsdomain.Service
	researchSvc  researchdomain.Service
	worker       *batch.Worker
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Engine *gin.Engine

	AnalyticsSvc analyticsdomain.Service
	ResearchSvc  researchdomain.Service
	Worker       *batch.Worker
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(metrics.HTTPWithConfig(metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})))
	return engine
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:    p.Config,
		log:    p.Log.Named("server"),
		db:     p.DB,
		engine: p.Engine,

		analyticsSvc: p.AnalyticsSvc,
		researchSvc:  p.ResearchSvc,
		worker:       p.Worker,
	}
}

// RegisterRoutes attaches every HTTP route to the engine.
func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api", scopeMiddleware())
	{
		api.GET("/members/:member_id/snapshots/latest", s.LatestSnapshot)
		api.GET("/members/:member_id/positioning", s.Positioning)
		api.POST("/members/:member_id/positioning/refresh", s.RefreshPositioning)
		api.GET("/members/:member_id/research/company", s.CompanyResearch)

		api.POST("/ops/snapshots/run", s.RunSnapshotBatch)
	}
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server starting", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.log.Info("http server shutting down")
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)
