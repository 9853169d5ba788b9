package main

import (
	"context"
	"net/http"
	"time"

	"complaintflow/backend/internal/api/handler"
	"complaintflow/backend/internal/audit"
	"complaintflow/backend/internal/config"
	"complaintflow/backend/internal/models"
	"complaintflow/backend/internal/notify"
	"complaintflow/backend/internal/routing"
	"complaintflow/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(cfg.LogLevel); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "timestamp"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return zcfg.Build(zap.Fields(zap.String("service_name", "complaintflow")))
}

func setupDependencies(cfg *config.Config, log *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal("Failed to connect Redis", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.Escalation{},
		&models.Decision{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	log.Info("Database and Redis connections established, migrations complete")
	return db, rdb
}

func main() {
	// .env is optional in containers; config falls back to the process
	// environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Starting ComplaintFlow Backend")

	db, rdb := setupDependencies(cfg, log)
	s := storage.NewStorageService(db, rdb)

	router := routing.NewRouter(s, audit.NewRecorder(), notify.NewPublisher(rdb), log)

	r := gin.Default()
	h := handler.NewHandler(router, s, []byte(cfg.JWTSecret), log)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info("Listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("HTTP server stopped", zap.Error(err))
	}
}
