package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/job-matcher/internal/cache"
	"github.com/fadilmartias/job-matcher/internal/config"
	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/domain/fiber/handler"
	"github.com/fadilmartias/job-matcher/internal/embedding"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/matching"
	"github.com/fadilmartias/job-matcher/internal/middleware"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/fadilmartias/job-matcher/internal/repository"
	"github.com/fadilmartias/job-matcher/internal/scheduler"
	"github.com/fadilmartias/job-matcher/internal/service"
	"github.com/fadilmartias/job-matcher/internal/usecase"
	"github.com/fadilmartias/job-matcher/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	matcherConfig := config.LoadMatcherConfig()
	zlog := logger.New(appConfig.LogLevel, appConfig.LogFormat)
	defer zlog.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return util.ErrorFrom(c, err, "Internal Server Error")
		},
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(zlog))
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	app.Get("/metrics", middleware.MetricsHandler())

	db := ConnectDB(zlog, matcherConfig.CacheBackend == config.CacheBackendPgVector)

	provider, err := NewEmbeddingProvider(ctx, zlog)
	if err != nil {
		zlog.Fatal("could not create embedding provider", zap.Error(err))
	}
	var embedProvider embedding.Provider = provider
	if redisConfig := config.LoadRedisConfig(); redisConfig.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, redisConfig)
		if err != nil {
			zlog.Warn("redis unavailable, embedding cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			embedProvider = cache.NewEmbeddingCache(provider, rdb, provider.ModelName(), redisConfig.TTL, zlog)
		}
	}
	adapter := embedding.NewAdapter(embedProvider, zlog)

	jobRepo := repository.NewJobRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	var cacheStore corpus.CacheStore
	switch matcherConfig.CacheBackend {
	case config.CacheBackendPgVector:
		cacheStore = repository.NewEmbeddingRepository(db, provider.ModelName())
	default:
		cacheStore = corpus.NewFileCacheStore(matcherConfig.CachePath, provider.ModelName())
	}
	loader := corpus.NewLoader(jobRepo, cacheStore, adapter, matcherConfig.BatchSize, zlog)
	store := corpus.NewStore(loader, zlog)

	go func() {
		if _, err := store.Reload(ctx, false); err != nil {
			zlog.Error("initial corpus load failed; use /reload-jobs to retry", zap.Error(err))
		}
	}()

	if matcherConfig.ReloadSchedule != "" {
		sched := scheduler.New(store, matcherConfig.ReloadSchedule, zlog)
		if err := sched.Start(ctx); err != nil {
			zlog.Fatal("could not start reload schedule", zap.Error(err))
		}
		defer sched.Stop()
	}

	engine := matching.NewEngine(adapter, zlog)
	matchUC := usecase.NewMatchUsecase(store, engine, profileRepo, preferenceRepo, applicationRepo, usageRepo, matcherConfig.DefaultTopN, zlog)
	jobUC := usecase.NewJobUsecase(store, jobRepo, zlog)
	userUC := usecase.NewUserUsecase(profileRepo, preferenceRepo, applicationRepo, activityRepo, usageRepo, zlog)

	handler.NewJobHandler(jobUC).RegisterRoutes(app)
	handler.NewMatchHandler(matchUC).RegisterRoutes(app)
	handler.NewUserHandler(userUC).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				zlog.Debug("runtime", zap.Int("goroutines", runtime.NumGoroutine()))
			}
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("server running", zap.String("port", appConfig.Port), zap.String("env", appConfig.Env))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

// NewEmbeddingProvider builds the configured embedding backend.
func NewEmbeddingProvider(ctx context.Context, log *zap.Logger) (service.EmbeddingServiceInterface, error) {
	embCfg := config.LoadEmbeddingConfig()
	switch embCfg.Provider {
	case config.EmbeddingProviderHTTP:
		return service.NewHTTPEmbeddingService(embCfg, log)
	case config.EmbeddingProviderGemini, "":
		return service.NewGeminiService(ctx, config.LoadGeminiConfig(), embCfg, log)
	default:
		return nil, errors.New("unknown embedding provider " + embCfg.Provider)
	}
}

func ConnectDB(log *zap.Logger, withVectors bool) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	gormLevel := gormlogger.Warn
	if appConfig.IsProduction() {
		gormLevel = gormlogger.Error
	}
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLevel),
	})
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatal("could not get database instance", zap.Error(err))
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	// org_jobs, Organisation, user_profiles, enhanced_resumes and cover_letters
	// belong to other services and are only read here.
	if err := db.AutoMigrate(&model.JobPreference{}, &model.ServiceUsage{}, &model.Applicant{}, &model.JobApplied{}); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if withVectors {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			log.Fatal("could not enable pgvector", zap.Error(err))
		}
		if err := db.AutoMigrate(&model.JobEmbedding{}); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	}
	return db
}
