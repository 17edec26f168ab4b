package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "moodmatch/internal/app"
	"moodmatch/internal/bootstrap"
	"moodmatch/internal/cache"
	"moodmatch/internal/match"
	"moodmatch/internal/repository"
	"moodmatch/internal/transport/http/handler"
	"moodmatch/internal/transport/http/middleware"
	"moodmatch/internal/vision"
)

// NewRouter wires services over the bootstrapped resources. The returned
// limiter runs a cleanup goroutine; call Stop on shutdown.
func NewRouter(app *bootstrap.App) (*gin.Engine, *middleware.RateLimiter) {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.MaxMultipartMemory = int64(cfg.Vision.MaxImageBytes) + 1<<20

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userRepo := repository.NewUserRepository(app.DB)
	songRepo := repository.NewSongRepository(app.DB)
	favoriteRepo := repository.NewFavoriteRepository(app.DB)
	scanRepo := repository.NewScanRepository(app.DB)
	versionRepo := repository.NewModelVersionRepository(app.DB)

	likedCache := cache.NewLikedCache(
		app.Redis,
		time.Duration(cfg.Redis.LikedTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.LikedDirtyTTLSecs)*time.Second,
	)

	authService := appsvc.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	favoriteService := appsvc.NewFavoriteService(favoriteRepo, songRepo, likedCache)
	historyService := appsvc.NewHistoryService(scanRepo)
	adminService := appsvc.NewAdminService(app.Models, app.Taxonomy, versionRepo)
	retriever := match.NewRetriever(songRepo, match.Options{
		MaxPerTier:    cfg.Match.MaxPerTier,
		CandidatePool: cfg.Match.CandidatePool,
		UnionTiers:    cfg.Match.UnionTiers,
	})
	scanService := appsvc.NewScanService(
		app.Locator,
		app.Models,
		app.Labels,
		app.Taxonomy,
		retriever,
		favoriteService,
		app.Publisher,
		appsvc.ScanServiceConfig{
			Normalization:   vision.ParseNormMode(cfg.Vision.Normalization),
			BreakerFailures: uint32(cfg.Vision.BreakerFailures),
			BreakerCooldown: time.Duration(cfg.Vision.BreakerCooldownS) * time.Second,
		},
	)

	authHandler := handler.NewAuthHandler(authService)
	scanHandler := handler.NewScanHandler(scanService, historyService, int64(cfg.Vision.MaxImageBytes))
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	adminHandler := handler.NewAdminHandler(adminService)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.ScansPerSecond, cfg.RateLimit.Burst)
	limiter.StartCleanup(10 * time.Minute)

	authJWT := middleware.AuthJWT(cfg.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authJWT, authHandler.Me)

	scanGroup := v1.Group("/scans", authJWT)
	if cfg.RateLimit.ScansPerSecond > 0 {
		scanGroup.POST("", middleware.RateLimit(limiter), scanHandler.Scan)
	} else {
		scanGroup.POST("", scanHandler.Scan)
	}
	scanGroup.GET("", scanHandler.History)

	favoriteGroup := v1.Group("/favorites", authJWT)
	favoriteGroup.GET("", favoriteHandler.List)
	favoriteGroup.POST("/:song_id", favoriteHandler.Like)
	favoriteGroup.DELETE("/:song_id", favoriteHandler.Unlike)

	v1.GET("/taxonomy", authJWT, adminHandler.Taxonomy)

	adminGroup := v1.Group("/admin", authJWT, middleware.RequireAdmin())
	adminGroup.GET("/model", adminHandler.ModelStatus)
	adminGroup.POST("/model", adminHandler.LoadModel)
	adminGroup.GET("/model/history", adminHandler.ModelHistory)
	adminGroup.PUT("/taxonomy", adminHandler.SetTaxonomy)

	return router, limiter
}
