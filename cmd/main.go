package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/config"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/database/minio"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/database/postgres"
	redisdb "github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/database/redis"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/event"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/handlers"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/repository"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/session"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/bitterscan", "log", "dashboard")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	// db connection; keep retrying until postgres comes up
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL: %v", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	// redis is optional: without it the service reads straight from
	// postgres on every request
	var redisClient *redisdb.Client
	redisClient, err = redisdb.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		log.Printf("Redis unavailable, caching disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// minio is optional: without it image keys are served unresolved
	var imageStore *minio.MinioClient
	if cfg.MinioCfg.Endpoint != "" {
		imageStore, err = minio.NewMinioClient(cfg.MinioCfg)
		if err != nil {
			log.Printf("MinIO unavailable, serving raw image keys: %v", err)
			imageStore = nil
		}
	}

	// change-feed publisher; broker loss degrades freshness only
	var publisher event.ChangePublisher = event.NoopChangePublisher{}
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, change events disabled: %v", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewRabbitChangePublisher(rabbitConn)
	}

	// repositories
	profileRepository := repository.NewProfileRepository(db)
	scanRepository := repository.NewScanRepository(db)
	validationRepository := repository.NewValidationRepository(db)
	diseaseInfoRepository := repository.NewDiseaseInfoRepository(db)
	readStateRepository := repository.NewReadStateRepository(db)
	analyticsRepository := repository.NewAnalyticsRepository(db)

	// services
	jwtService := services.NewJWTService(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.TokenTTL)
	userService := services.NewUserService(profileRepository, jwtService, publisher)

	var cacheClient = redisClientOrNil(redisClient)
	var imageResolver services.ImageResolver
	if imageStore != nil {
		imageResolver = imageStore
	}
	scanService := services.NewScanService(scanRepository, validationRepository, cacheClient, imageResolver)
	readStateService := services.NewReadStateService(readStateRepository, scanRepository, profileRepository, cacheClient)
	validationService := services.NewValidationService(scanRepository, validationRepository, readStateService, publisher)
	diseaseInfoService := services.NewDiseaseInfoService(diseaseInfoRepository, publisher)
	analyticsService := services.NewAnalyticsService(analyticsRepository, validationRepository, profileRepository)

	if err := userService.EnsureBootstrapAdmin(cfg.AuthCfg.AdminEmail, cfg.AuthCfg.AdminPassword); err != nil {
		log.Printf("Bootstrap admin provisioning failed: %v", err)
	}

	seedService := services.NewSeedService(diseaseInfoRepository, scanRepository)
	if err := seedService.EnsureBaselineDiseaseInfo(); err != nil {
		log.Printf("Disease knowledge-base seeding failed: %v", err)
	}
	if cfg.SeedDemoData {
		if err := seedService.SeedDemoScans(); err != nil {
			log.Printf("Demo scan seeding failed: %v", err)
		}
	}

	// change-feed subscription: cache invalidation on row changes, polling
	// fallback past the retry ceiling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subCfg := event.DefaultSubscriptionManagerConfig()
	subCfg.PollInterval = cfg.ReadyCfg.PollInterval
	feed := event.NewRabbitFeed(func() (*event.RabbitMQConnection, error) {
		return event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	})
	subscription := event.NewSubscriptionManager(feed, subCfg,
		scanService.HandleChange,
		func(ctx context.Context) {
			scanService.InvalidateFeedCache(ctx)
		},
	)
	if err := subscription.Start(ctx); err != nil {
		log.Printf("Subscription manager not started: %v", err)
	}

	// handlers
	middleware := handlers.NewMiddleware(jwtService, userService)
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, middleware)
	scanHandler := handlers.NewScanHandler(scanService, validationService, middleware)
	diseaseInfoHandler := handlers.NewDiseaseInfoHandler(diseaseInfoService, middleware)
	notificationHandler := handlers.NewNotificationHandler(readStateService, middleware)
	dashboardHandler := handlers.NewDashboardHandler(analyticsService, middleware)
	sessionHandler := handlers.NewSessionHandler(jwtService, userService, scanService, subscription, session.Config{
		SessionBudget: cfg.ReadyCfg.SessionBudget,
		DataBudget:    cfg.ReadyCfg.DataBudget,
	})

	r := gin.Default()
	authHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r)
	scanHandler.RegisterRoutes(r)
	diseaseInfoHandler.RegisterRoutes(r)
	notificationHandler.RegisterRoutes(r)
	dashboardHandler.RegisterRoutes(r)
	sessionHandler.RegisterRoutes(r)

	log.Printf("Starting dashboard service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func redisClientOrNil(c *redisdb.Client) *redis.Client {
	if c == nil {
		return nil
	}
	return c.GetClient()
}
