package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"buyer-lead-portal/internal/auth"
	"buyer-lead-portal/internal/buyers"
	"buyer-lead-portal/internal/config"
	"buyer-lead-portal/internal/database"
	"buyer-lead-portal/internal/handlers"
	"buyer-lead-portal/internal/ratelimit"
	"buyer-lead-portal/internal/scheduler"
)

var (
	appConfig    *config.Config
	authManager  *auth.Manager
	rateLimiter  *ratelimit.RateLimiter
	appScheduler *scheduler.Scheduler
)

func main() {
	// Load .env if present (local development)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Configuration loaded from %s", configPath)

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	var store buyers.Store
	if dbType == "mysql" {
		mysqlCfg := appConfig.Database.MySQL
		portStr := ""
		if mysqlCfg.Port != 0 {
			portStr = strconv.Itoa(mysqlCfg.Port)
		}

		gormDB, err := database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "buyerlead_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "buyerlead_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "buyerlead_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer gormDB.Close()

		if err := gormDB.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		store = gormDB
		log.Println("Using MySQL database (GORM)")
	} else {
		pgCfg := appConfig.Database.Postgres
		portStr := ""
		if pgCfg.Port != 0 {
			portStr = strconv.Itoa(pgCfg.Port)
		}

		db, err := database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "buyerlead_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "buyerlead_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "buyerlead_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		store = db
		log.Println("Using PostgreSQL database")
	}

	// Initialize magic-link token store
	var tokenStore auth.TokenStore
	if appConfig.TokenStore.Type == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     getEnvOrConfig(appConfig.TokenStore.Redis.Addr, "REDIS_ADDR", "localhost:6379"),
			Password: appConfig.TokenStore.Redis.Password,
			DB:       appConfig.TokenStore.Redis.DB,
		})
		tokenStore = auth.NewRedisTokenStore(client)
		log.Println("Token store: redis")
	} else {
		tokenStore = auth.NewMemoryTokenStore()
		log.Println("Token store: memory")
	}

	jwtSecret := getEnvOrConfig(appConfig.Auth.JWTSecret, "JWT_SECRET", "dev-secret-change-me")
	authManager = auth.NewManager(jwtSecret, tokenStore, appConfig.Auth.MagicLinkTTL())

	// Initialize rate limiter
	rateLimiter = ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.Window(),
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.Enabled,
	)

	service := buyers.NewService(store, appConfig.Auth.BypassUserID)

	// Start maintenance scheduler (token purge, rate-limit cleanup)
	appScheduler = scheduler.NewScheduler(authManager, rateLimiter, "@every 5m")
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	buyersHandler := handlers.NewBuyersHandler(service)
	authHandler := handlers.NewAuthHandler(authManager, store, appConfig.Auth.DevMode)
	requireAuth := handlers.AuthMiddleware(authManager, appConfig.Auth.DevMode, appConfig.Auth.BypassUserID)
	throttle := handlers.RateLimitMiddleware(rateLimiter)

	// Routes
	r.GET("/health", healthCheck)

	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/magic-link", throttle, authHandler.MagicLink)
		authRoutes.GET("/verify", authHandler.Verify)
		authRoutes.GET("/me", requireAuth, authHandler.Me)
	}

	// Mutating routes are throttled; reads are not.
	api := r.Group("/api/buyers", requireAuth)
	{
		api.GET("", buyersHandler.List)
		api.POST("", throttle, buyersHandler.Create)
		api.GET("/export", buyersHandler.Export)
		api.POST("/import", throttle, buyersHandler.Import)
		api.GET("/:id", buyersHandler.Get)
		api.PUT("/:id", throttle, buyersHandler.Update)
		api.DELETE("/:id", throttle, buyersHandler.Delete)
		api.GET("/:id/history", buyersHandler.History)
	}

	adminHandler := handlers.NewAdminHandler(store, rateLimiter, appScheduler)
	admin := r.Group("/api/admin", requireAuth)
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/ratelimit", adminHandler.GetRateLimitStats)
		admin.POST("/maintenance/run", adminHandler.TriggerMaintenance)
	}

	port := getEnv("PORT", "8080")
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

// getEnv returns the environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
