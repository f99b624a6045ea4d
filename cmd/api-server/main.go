package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"leafhub/database"
	"leafhub/internal/config"
	"leafhub/internal/ingestion/classifier"
	"leafhub/internal/microservices/http-api/handler"
	"leafhub/internal/microservices/http-api/middleware"
	"leafhub/internal/microservices/http-api/repository"
	"leafhub/internal/microservices/http-api/service"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// 2. Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// 3. Redis cache (optional; the service runs without it)
	cache, err := repository.NewCategoryCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, category cache disabled", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	scanRepo := repository.NewScanRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 5. Services
	classifierClient := classifier.NewClient(cfg.ClassifierAPIURL, cfg.ClassifierAPIKey)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	categoryService := service.NewCategoryService(categoryRepo, cache, logger)
	scanService := service.NewScanService(scanRepo, categoryRepo, cache, classifierClient, logger)
	commentService := service.NewCommentService(commentRepo, postRepo)
	postService := service.NewPostService(postRepo)
	statsService := service.NewStatsService(scanRepo, categoryRepo)

	// 6. Gin
	if strings.EqualFold(cfg.GoEnv, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"message": "API is alive and database connected",
		})
	})

	api := r.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(authed)
	handler.NewScanHandler(scanService).RegisterRoutes(authed)
	handler.NewPostHandler(postService).RegisterRoutes(authed)
	handler.NewCommentHandler(commentService).RegisterRoutes(authed)
	handler.NewStatsHandler(statsService).RegisterRoutes(authed)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
