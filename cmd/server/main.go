package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/codereviewlab/backend/internal/bootstrap"
	"github.com/codereviewlab/backend/internal/config"
	"github.com/codereviewlab/backend/internal/handler"
	"github.com/codereviewlab/backend/internal/middleware"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/codereviewlab/backend/internal/service"
	"github.com/codereviewlab/backend/pkg/database"
	"github.com/codereviewlab/backend/pkg/llm"
	"github.com/codereviewlab/backend/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedUsers(db); err != nil {
			log.Fatalf("failed to seed users: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)
	meiliClient := connectMeilisearch(cfg.MeiliSearchHost, cfg.MeiliMasterKey)

	videoStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryVideoFolder)
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tagRepo := repository.NewTagRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTLMinutes)
	authHandler := handler.NewAuthHandler(authSvc)

	searchSvc := service.NewSearchService(meiliClient)

	videoSvc := service.NewVideoService(submissionRepo, userRepo, videoStorage)
	videoHandler := handler.NewVideoHandler(videoSvc)

	submissionSvc := service.NewSubmissionService(submissionRepo, userRepo, videoSvc, searchSvc, redisClient, cfg.RateLimitSubmission)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	reviewSvc := service.NewReviewService(reviewRepo, submissionRepo, userRepo, notificationSvc, redisClient, cfg.RateLimitReview)
	reviewHandler := handler.NewReviewHandler(reviewSvc)

	tagSvc := service.NewTagService(tagRepo)
	tagHandler := handler.NewTagHandler(tagSvc)

	analyticsSvc := service.NewAnalyticsService(analyticsRepo, userRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)

	aiSvc := service.NewAIService(submissionRepo, userRepo, connectLLM(cfg.GeminiModel), redisClient, cfg.AIDailyQuota)
	aiHandler := handler.NewAIHandler(aiSvc)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	router := gin.Default()
	setupCORS(router, cfg.AllowedOrigins)

	router.GET("/health", handler.NewHealthHandler(db).Check)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/auth/me", authHandler.Me)

		api.POST("/submissions", submissionHandler.Create)
		api.GET("/submissions", submissionHandler.List)
		api.GET("/submissions/search", submissionHandler.Search)
		api.POST("/submissions/upload-video", videoHandler.Upload)
		api.GET("/submissions/:id", submissionHandler.Get)
		api.PUT("/submissions/:id", submissionHandler.Update)
		api.DELETE("/submissions/:id", submissionHandler.Delete)
		api.DELETE("/submissions/:id/video", videoHandler.Delete)

		api.POST("/reviews", reviewHandler.Create)
		api.GET("/reviews/submission/:id", reviewHandler.ListForSubmission)

		api.GET("/tags", tagHandler.List)

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.GET("/ws", notificationHandler.HandleWebSocket)
		}

		api.POST("/ai/analyze", aiHandler.Analyze)
		api.GET("/ai/quota", aiHandler.Quota)

		api.GET("/analytics/summary", analyticsHandler.Summary)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset; rate limiting and
// realtime notifications degrade gracefully without it.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, rate limiting and realtime notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis ping failed, continuing without redis: %v", err)
		return nil
	}

	return client
}

// connectLLM returns nil when GEMINI_API_KEY is unset; ai analysis
// endpoints then report the feature as unconfigured.
func connectLLM(modelName string) llm.Provider {
	provider, err := llm.NewGeminiProvider(context.Background(), modelName)
	if err != nil {
		log.Printf("gemini provider unavailable, ai analysis disabled: %v", err)
		return nil
	}
	return provider
}

func connectMeilisearch(host, masterKey string) meilisearch.ServiceManager {
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	return meilisearch.New(host, meilisearch.WithAPIKey(masterKey))
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
