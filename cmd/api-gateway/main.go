package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/schoolops/relief-api/internal/handler"
	internalmiddleware "github.com/schoolops/relief-api/internal/middleware"
	"github.com/schoolops/relief-api/internal/repository"
	"github.com/schoolops/relief-api/internal/service"
	"github.com/schoolops/relief-api/pkg/cache"
	"github.com/schoolops/relief-api/pkg/config"
	"github.com/schoolops/relief-api/pkg/database"
	"github.com/schoolops/relief-api/pkg/jobs"
	"github.com/schoolops/relief-api/pkg/logger"
	corsmiddleware "github.com/schoolops/relief-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolops/relief-api/pkg/middleware/requestid"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	teacherRepo := repository.NewTeacherRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	substitutionRepo := repository.NewSubstitutionRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	validate := validator.New()

	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, teacherRepo, activityRepo, cacheSvc, validate, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, teacherRepo, cacheSvc, logr)
	substitutionSvc := service.NewSubstitutionService(substitutionRepo, teacherRepo, attendanceRepo, timetableRepo, activityRepo, cacheSvc, validate, logr)
	periodSvc := service.NewPeriodService(periodRepo, validate, logr)
	activitySvc := service.NewActivityService(activityRepo, teacherRepo, logr)
	messageSvc := service.NewMessageService(messageRepo, teacherRepo, activityRepo, validate, logr)
	rosterImportSvc := service.NewRosterImportService(teacherSvc, metrics, logr)
	timetableImportSvc := service.NewTimetableImportService(timetableRepo, teacherSvc, cacheSvc, metrics, logr)
	reportSvc := service.NewReportService(substitutionSvc, logr)

	if cfg.Periods.SeedDefaults {
		if err := periodSvc.SeedDefaults(ctx); err != nil {
			logr.Sugar().Fatalw("failed to seed periods", "error", err)
		}
	}

	var dispatchQueue *jobs.Queue
	if cfg.Messaging.DispatchEnabled {
		dispatchQueue = jobs.NewQueue("message-dispatch", messageSvc.Dispatch, jobs.QueueConfig{
			Workers:    cfg.Messaging.Workers,
			MaxRetries: cfg.Messaging.MaxRetries,
			RetryDelay: cfg.Messaging.RetryDelay,
			Logger:     logr,
		})
		dispatchQueue.Start(ctx)
		defer dispatchQueue.Stop()
		messageSvc.AttachQueue(dispatchQueue)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Teachers:      handler.NewTeacherHandler(teacherSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc),
		Timetable:     handler.NewTimetableHandler(timetableSvc),
		Substitutions: handler.NewSubstitutionHandler(substitutionSvc),
		Periods:       handler.NewPeriodHandler(periodSvc),
		Activity:      handler.NewActivityHandler(activitySvc),
		Messages:      handler.NewMessageHandler(messageSvc),
		Uploads:       handler.NewUploadHandler(rosterImportSvc, timetableImportSvc, cfg.Uploads.MaxFileSizeBytes),
		Reports:       handler.NewReportHandler(reportSvc),
		Metrics:       metrics.Handler(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
