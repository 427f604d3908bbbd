package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/triprisk-backend-go/internal/analysis"
	"github.com/jengzang/triprisk-backend-go/internal/api"
	"github.com/jengzang/triprisk-backend-go/internal/config"
	"github.com/jengzang/triprisk-backend-go/internal/database"
	"github.com/jengzang/triprisk-backend-go/internal/events"
	"github.com/jengzang/triprisk-backend-go/internal/handler"
	"github.com/jengzang/triprisk-backend-go/internal/logging"
	"github.com/jengzang/triprisk-backend-go/internal/middleware"
	"github.com/jengzang/triprisk-backend-go/internal/repository"
	"github.com/jengzang/triprisk-backend-go/internal/scoring"
	"github.com/jengzang/triprisk-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggerConfig())
	defer logging.Close()
	gin.SetMode(gin.ReleaseMode)

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.Database.Path})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.NewMigrationManager(db).RunMigrations(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// 评分网关
	scorer, breaker, err := newScorer(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize scorer")
	}
	gateway := scoring.NewGateway(scorer, cfg.Normalizer())

	// 事件发布
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.NATSURL != "" {
		p, err := events.NewNATSPublisher(events.NATSConfig{
			URL:          cfg.Events.NATSURL,
			Subject:      cfg.Events.Subject,
			FlushTimeout: cfg.Events.FlushTimeout,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		publisher = p
	}
	defer publisher.Close()

	svc := service.NewRiskService(
		analysis.NewEngine(cfg.AnalysisEngineConfig()),
		gateway,
		repository.NewAssessmentRepository(db),
		publisher,
	)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		defer limiter.Stop()
	}

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Risk:        handler.NewRiskHandler(svc),
		Assessments: handler.NewAssessmentHandler(svc),
		Health:      handler.NewHealthHandler(db, breaker),
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Port).
			Str("scoring", cfg.Scoring.Mode).
			Bool("auth", cfg.Auth.JWTSecret != "").
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logging.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newScorer builds the configured scorer. breaker is nil unless the scorer is remote.
func newScorer(cfg *config.Config) (scoring.Scorer, handler.BreakerState, error) {
	if cfg.Scoring.Mode == config.ScoringRemote {
		remote := scoring.NewRemoteScorer(cfg.RemoteScorerConfig())
		return remote, remote, nil
	}

	model := scoring.DefaultBaselineModel()
	if cfg.Scoring.BaselineModelFile != "" {
		var err error
		if model, err = scoring.LoadBaselineModel(cfg.Scoring.BaselineModelFile); err != nil {
			return nil, nil, err
		}
	}
	baseline, err := scoring.NewBaselineScorer(model)
	if err != nil {
		return nil, nil, err
	}
	return baseline, nil, nil
}
