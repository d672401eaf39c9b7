package main

import (
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/eduplan/lesson-planner-api/api/swagger"
	"github.com/eduplan/lesson-planner-api/internal/handler"
	"github.com/eduplan/lesson-planner-api/internal/repository"
	"github.com/eduplan/lesson-planner-api/internal/router"
	"github.com/eduplan/lesson-planner-api/internal/service"
	"github.com/eduplan/lesson-planner-api/pkg/cache"
	"github.com/eduplan/lesson-planner-api/pkg/config"
	"github.com/eduplan/lesson-planner-api/pkg/database"
	"github.com/eduplan/lesson-planner-api/pkg/logger"
)

// @title Lesson Planner API
// @version 1.0.0
// @description REST API for weekly and daily lesson planning
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	} else {
		logr.Sugar().Infow("redis disabled, caching disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewUserRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	weekRepo := repository.NewWeekRepository(db)
	planRepo := repository.NewPlanRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	gradeSvc := service.NewGradeService(gradeRepo, nil, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, userRepo, gradeRepo, subjectRepo, nil, logr)
	weekSvc := service.NewWeekService(weekRepo, cacheRepo, metricsSvc, cfg.Cache.ActiveWeeksTTL, nil, logr)
	planSvc := service.NewPlanService(planRepo, weekRepo, subjectRepo, assignmentRepo, cacheRepo, metricsSvc, cfg.Cache.CompletePlanTTL, nil, logr)
	exportSvc := service.NewExportService(planSvc, cfg.Exports.SchoolName, logr)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc),
		Grades:      handler.NewGradeHandler(gradeSvc),
		Subjects:    handler.NewSubjectHandler(subjectSvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc),
		Weeks:       handler.NewWeekHandler(weekSvc),
		Plans:       handler.NewPlanHandler(planSvc, exportSvc, metricsSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc, db),
	}

	engine := router.New(cfg, logr, authSvc, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := engine.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
