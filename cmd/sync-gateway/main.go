package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/handler"
	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/prefs"
	"github.com/belalwws/noor-academy-sub008/internal/service"
	"github.com/belalwws/noor-academy-sub008/internal/session"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/cache"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	"github.com/belalwws/noor-academy-sub008/pkg/logger"
	corsmiddleware "github.com/belalwws/noor-academy-sub008/pkg/middleware/cors"
	reqidmiddleware "github.com/belalwws/noor-academy-sub008/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, session and preferences will not persist", zap.Error(err))
		redisClient = nil
	}

	metrics := service.NewMetricsService()

	// Two upstream clients: the refresher must not go through the session
	// manager it feeds.
	refreshClient := upstream.NewClient(cfg.Upstream, nil, logr, metrics)
	refresher := session.NewUpstreamRefresher(refreshClient)

	var tokenStore session.TokenStore
	if redisClient != nil {
		tokenStore = session.NewRedisStore(redisClient, cfg.Session.StoreKey)
	}
	sessionManager := session.NewManager(tokenStore, refresher, cfg.Session.RefreshLeeway, logr)
	if err := sessionManager.Start(ctx); err != nil {
		logr.Warn("restoring session failed", zap.Error(err))
	}

	client := upstream.NewClient(cfg.Upstream, sessionManager, logr, metrics)
	prefStore := prefs.NewStore(redisClient, logr)

	batches := service.NewBatchService(upstream.NewResource[models.Batch](client, "batches"), nil, cfg.Reconcile, metrics, logr)
	notes := service.NewNoteService(upstream.NewResource[models.AnnouncementNote](client, "notes"), nil, cfg.Reconcile, metrics, logr)
	courses := service.NewCourseService(upstream.NewResource[models.Course](client, "courses"), nil, cfg.Reconcile, metrics, logr)
	enrollments := service.NewEnrollmentService(upstream.NewResource[models.Enrollment](client, "enrollments"), nil, cfg.Reconcile, metrics, logr)
	topics := service.NewTopicService(upstream.NewResource[models.Topic](client, "topics"), nil, cfg.Reconcile, metrics, logr)
	reports := service.NewReportService(upstream.NewResource[models.Report](client, "reports"), cfg.Reconcile, cfg.Exports, metrics, logr)
	recordings := service.NewRecordedCourseService(upstream.NewResource[models.RecordedCourse](client, "recorded-courses"), cfg.Reconcile, metrics, logr)
	labs := service.NewKnowledgeLabService(upstream.NewResource[models.KnowledgeLab](client, "knowledge-labs"), nil, cfg.Reconcile, metrics, logr)
	reminders := service.NewReminderService(upstream.NewReminderSettingsAPI(client), prefStore, nil, logr)

	// Background reconciliation outlives individual requests.
	batches.Start(ctx)
	notes.Start(ctx)
	courses.Start(ctx)
	enrollments.Start(ctx)
	topics.Start(ctx)
	recordings.Start(ctx)
	labs.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.Register(r, cfg.APIPrefix, handler.Services{
		Batches:         batches,
		Notes:           notes,
		Courses:         courses,
		Enrollments:     enrollments,
		Topics:          topics,
		Reports:         reports,
		RecordedCourses: recordings,
		KnowledgeLabs:   labs,
		Reminders:       reminders,
		Session:         sessionManager,
		Metrics:         metrics,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
