package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feed-service/internal/config"
	"feed-service/internal/db"
	"feed-service/internal/feed"
	"feed-service/internal/handlers"
	"feed-service/internal/middleware"
	"feed-service/internal/observability"
	"feed-service/internal/rabbitmq"
	"feed-service/internal/session"
	"feed-service/internal/telegram"
	"feed-service/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	sessionStore, err := session.NewRepo(database, cfg.SessionSecret)
	if err != nil {
		log.Fatalf("failed to build session store: %v", err)
	}

	connector := telegram.NewConnector(cfg.TelegramAppID, cfg.TelegramHash)
	feedService := feed.NewService(connector, feed.MergePolicy{
		MaxChannels:     cfg.FeedMaxChannels,
		BatchSize:       cfg.FeedBatchSize,
		PerChannelLimit: cfg.FeedPerChannelLimit,
	})

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	emitter := telemetry.NewAuditEmitter(publisher, cfg.AuditRouting, "feed-service", cfg.Env)

	authHandler := handlers.NewAuthHandler(sessionStore, connector, emitter)
	channelHandler := handlers.NewChannelHandler(feedService)
	feedHandler := handlers.NewFeedHandler(feedService)
	folderHandler := handlers.NewFolderHandler(feedService)
	mediaHandler := handlers.NewMediaHandler(feedService)

	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogMiddleware())
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(sessionStore)

	router.POST("/api/auth/send-code", authHandler.SendCode)
	router.POST("/api/auth/verify-code", authHandler.VerifyCode)
	router.POST("/api/auth/check-password", authHandler.CheckPassword)
	router.GET("/api/auth/me", authHandler.Me)
	router.POST("/api/auth/logout", authHandler.Logout)

	router.GET("/api/channels", authMiddleware, channelHandler.ListChannels)
	router.GET("/api/channels/:id", authMiddleware, channelHandler.GetChannel)
	router.GET("/api/channels/:id/messages", authMiddleware, channelHandler.GetChannelMessages)
	router.GET("/api/channels/:id/photo", authMiddleware, channelHandler.GetChannelPhoto)
	router.GET("/api/folders", authMiddleware, folderHandler.ListFolders)
	router.GET("/api/feed", authMiddleware, feedHandler.GetFeed)
	router.GET("/api/media/:mediaId", authMiddleware, mediaHandler.GetMedia)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
