package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/oreoregeo/internal/backup"
	"github.com/shenikar/oreoregeo/internal/config"
	v1 "github.com/shenikar/oreoregeo/internal/handler/http/v1"
	"github.com/shenikar/oreoregeo/internal/osm"
	"github.com/shenikar/oreoregeo/internal/repository"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/shenikar/oreoregeo/internal/webhook"
	"github.com/shenikar/oreoregeo/pkg/logger"
	"github.com/shenikar/oreoregeo/pkg/postgres"
	redisclient "github.com/shenikar/oreoregeo/pkg/redis"
	"github.com/shenikar/oreoregeo/pkg/sqlite"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/oreoregeo/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const osmHTTPTimeout = 30 * time.Second

// @title Oreoregeo API
// @version 1.0
// @description Nearby POI search, deduplicated check-ins and OpenStreetMap editing.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// openStore открывает выбранное хранилище. Для SQLite дополнительно
// возвращается сервис резервного копирования, если он настроен.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.PlaceRepository, service.BackupService, func(), error) {
	if cfg.DBDriver == config.DriverPostgres {
		if err := runMigrations(cfg, log); err != nil {
			return nil, nil, nil, err
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("Successfully connected to PostgreSQL")
		return repository.NewPlaceRepository(dbpool), nil, dbpool.Close, nil
	}

	db, err := sqlite.NewSQLiteDB(cfg.SQLitePath, cfg.LogLevel == logrus.DebugLevel.String())
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	closeDB := func() { _ = sqlDB.Close() }

	repo := repository.NewSQLitePlaceRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	log.WithField("path", cfg.SQLitePath).Info("Successfully opened SQLite database")

	if !cfg.BackupEnabled() {
		return repo, nil, closeDB, nil
	}
	// после восстановления старое соединение смотрит на замененный файл
	fenced := repository.NewFencedPlaceRepository(repo)
	minioClient, err := backup.NewMinioClient(cfg)
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	backupService := backup.NewBackupService(minioClient, repo, fenced, cfg.SQLitePath, cfg.BackupBucket, cfg.BackupPrefix, log)
	log.WithField("endpoint", cfg.BackupEndpoint).Info("Backup to object storage enabled")
	return fenced, backupService, closeDB, nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	placeRepo, backupService, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.DBDriver, err)
	}
	defer closeStore()

	// Redis хранит токен OSM и очередь вебхуков
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	var webhookPublisher webhook.WebhookPublisher = webhook.NopPublisher{}
	if cfg.WebhookURL != "" {
		webhookPublisher = webhook.NewRedisWebhookPublisher(redisClient)
		webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
		webhookWorker.Start(ctx)
	}

	cachedRepo := repository.NewCachedPlaceRepository(placeRepo, redisClient, log)
	tokenStore := repository.NewTokenStore(redisClient)
	osmHTTPClient := &http.Client{Timeout: osmHTTPTimeout}

	overpass := osm.NewOverpassClient(cfg.OverpassURL, cfg.OverpassTimeout, cfg.OverpassMinInterval)
	editor := osm.NewEditClient(cfg.OSMAPIURL, cfg.OSMChangesetCreatedBy, osmHTTPClient, log)
	authenticator := osm.NewAuthenticator(cfg.OSMClientID, cfg.OSMClientSecret, cfg.OSMAuthURL, cfg.OSMTokenURL, cfg.OSMRedirectURL, osmHTTPClient)

	// Инициализация сервисов
	placeService := service.NewPlaceService(cachedRepo, overpass, editor, tokenStore, webhookPublisher, log)
	authService := service.NewAuthService(authenticator, tokenStore, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(placeService, authService, backupService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	log.Info("Server gracefully stopped")
}
