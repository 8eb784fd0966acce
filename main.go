package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"freshmart/api/config"
	"freshmart/api/database"
	"freshmart/api/handlers"
	"freshmart/api/metrics"
	"freshmart/api/middleware"
	"freshmart/api/recommend"
	"freshmart/api/store"
)

func main() {
	// Load .env file at the very start so config and JWT secrets see it.
	if err := godotenv.Load(); err != nil {
		log.Info().Msgf("No .env file found or error loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level := zerolog.InfoLevel
	if cfg.AppEnv == "dev" {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL (users, catalog, orders) ---
	dbClient, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL database")
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse (view event stream) ---
	chClient, err := database.NewClickHouseDB(database.ClickHouseConfig{
		Host:     cfg.ClickHouse.Host,
		Port:     cfg.ClickHouse.Port,
		DBName:   cfg.ClickHouse.DBName,
		Username: cfg.ClickHouse.Username,
		Password: cfg.ClickHouse.Password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ClickHouse database")
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	productStore := store.NewProductStore(dbClient.DB)
	orderStore := store.NewOrderStore(dbClient.DB)
	viewStore := store.NewViewStore(chClient)

	// The trending aggregate is cross-user, so it sits behind a short-TTL
	// Redis cache when one is configured.
	var trendingProvider recommend.TrendingProvider = orderStore
	if cfg.RedisAddr != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, trending aggregates read straight from Postgres")
		} else {
			defer redisClient.Close()
			trendingProvider = store.NewTrendingCache(redisClient, orderStore, 5*time.Minute)
		}
	}

	// --- Initialize Engine ---
	engine := recommend.NewEngine(productStore, orderStore, viewStore, trendingProvider, recommend.Options{
		OrderHistoryLimit:  cfg.Engine.OrderHistoryLimit,
		ViewHistoryLimit:   cfg.Engine.ViewHistoryLimit,
		TrendingWindowDays: cfg.Engine.TrendingWindowDays,
		RecommendedSize:    cfg.Engine.RecommendedSize,
		TrendingSize:       cfg.Engine.TrendingSize,
		FallbackSize:       cfg.Engine.FallbackSize,
		MaxPerCategory:     cfg.Engine.MaxPerCategory,
	})

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	recoHandlers := handlers.NewRecommendationHandlers(engine, viewStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.FEOrigin))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Recommendations work for anonymous users too; missing identity
		// triggers the trending-only cold-start path.
		open := api.Group("/")
		open.Use(middleware.OptionalAuth())
		{
			open.GET("/recommendations", recoHandlers.GetRecommendations)
			open.POST("/track/view", recoHandlers.TrackView)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/profile", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"user_id":    c.MustGet("user_id").(int),
					"user_email": c.MustGet("user_email").(string),
				})
			})
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Go API server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Go API server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting.")
}
