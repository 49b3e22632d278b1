package router

import (
	"log"
	"time"

	"unimart/config"
	"unimart/internal/event"
	"unimart/internal/handler"
	"unimart/internal/middleware"
	"unimart/internal/repository"
	"unimart/internal/service"
	"unimart/internal/ws"
	"unimart/pkg/ai"
	"unimart/pkg/cloudinary"
	"unimart/pkg/mailer"
	"unimart/pkg/push"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, bus *event.Bus) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	chatHub := ws.NewChatHub()
	notifHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	connSvc := service.NewConnectionService(connRepo, productRepo, notifRepo, bus)

	pusher := newPusher(&cfg.Push)
	if pusher != nil {
		bus.Subscribe(service.NewPushObserver(userRepo, pusher))
	}
	bus.Subscribe(ws.NewEventObserver(chatHub, notifHub))

	var gemini *ai.GeminiClient
	if cfg.Gemini.APIKey != "" {
		gemini = ai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	}
	var feedbackMailer mailer.Mailer
	if m := mailer.NewMailgunMailer(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.From, cfg.Mailgun.FeedbackTo); m != nil {
		feedbackMailer = m
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	productHandler := handler.NewProductHandler(productRepo, cloud)
	describeHandler := handler.NewDescribeHandler(gemini)
	connHandler := handler.NewConnectionHandler(connSvc, connRepo)
	chatHandler := handler.NewChatHandler(connSvc, connRepo)
	notifHandler := handler.NewNotificationHandler(notifRepo)
	feedbackHandler := handler.NewFeedbackHandler(feedbackRepo, userRepo, feedbackMailer)
	statsHandler := handler.NewStatsHandler(userRepo, productRepo, connRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/stats", statsHandler.Platform)
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", authHandler.Me)
			me.PATCH("/profile", authHandler.UpdateMe)
			me.PUT("/fcm-token", authHandler.UpdateFCMToken)
			me.GET("/products", productHandler.ListMine)
		}

		products := api.Group("/products")
		products.Use(authMw)
		{
			products.POST("", productHandler.Create)
			products.PATCH("/:id", productHandler.Update)
			products.PATCH("/:id/status", productHandler.UpdateStatus)
			products.DELETE("/:id", productHandler.Delete)
			products.POST("/describe", describeHandler.Describe)
		}

		connections := api.Group("/connections")
		connections.Use(authMw)
		{
			connections.POST("", connHandler.Create)
			connections.GET("", connHandler.ListMine)
			connections.POST("/:id/accept", connHandler.Accept)
			connections.POST("/:id/decline", connHandler.Decline)
			connections.GET("/:id/messages", chatHandler.ListMessages)
		}

		api.POST("/messages", authMw, chatHandler.SendMessage)

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notifHandler.List)
			notifications.GET("/unread-counts", notifHandler.UnreadCounts)
			notifications.POST("/read-all", notifHandler.MarkAllRead)
			notifications.POST("/chat/:id/read", notifHandler.MarkChatRead)
		}

		api.POST("/feedback", authMw, feedbackHandler.Create)
	}

	// WebSocket endpoints authenticate via token query param; browsers cannot set
	// headers on the upgrade request.
	r.GET("/ws/chat", handler.UpgradeChatWS(&cfg.JWT, chatHub, connRepo))
	r.GET("/ws/notifications", handler.UpgradeNotificationsWS(&cfg.JWT, notifHub))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func newPusher(cfg *config.PushConfig) push.Pusher {
	switch cfg.Provider {
	case "onesignal":
		if cfg.OneSignalAppID == "" || cfg.OneSignalAPIKey == "" {
			log.Printf("[Push] OneSignal selected but not configured, push disabled")
			return nil
		}
		log.Printf("[Push] OneSignal enabled")
		return push.NewOneSignalPusher(cfg.OneSignalAppID, cfg.OneSignalAPIKey)
	case "fcm":
		p := push.NewFCMPusher(cfg.FirebaseCredential)
		if p == nil {
			log.Printf("[Push] FCM selected but not configured, push disabled")
			return nil
		}
		log.Printf("[Push] FCM enabled")
		return p
	default:
		log.Printf("[Push] disabled: set PUSH_PROVIDER to onesignal or fcm to enable")
		return nil
	}
}
