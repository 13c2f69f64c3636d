package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/config"
	"github.com/swiftstay/selfcheckin-backend/internal/events"
	"github.com/swiftstay/selfcheckin-backend/internal/handlers"
	"github.com/swiftstay/selfcheckin-backend/internal/middleware"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
	"github.com/swiftstay/selfcheckin-backend/internal/store"
	"github.com/swiftstay/selfcheckin-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SwiftStay Self Check-In Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Open the hotel state store
	logger.Infof("Opening %s state store...", cfg.Store.Backend)
	st, err := openStore(cfg.Store, logger)
	if err != nil {
		logger.Fatalf("Failed to open state store: %v", err)
	}
	defer st.Close()
	if err := st.Ping(); err != nil {
		logger.Fatalf("Failed to ping state store: %v", err)
	}
	logger.Info("State store ready")

	// Initialize services
	logger.Info("Initializing services...")
	bus := events.New(logger)
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	lifecycleService := services.NewLifecycleService(st, bus, logger)
	requestService := services.NewRequestService(st, bus, logger)
	authService, err := services.NewAuthService(cfg.Admin, jwtService, st, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize auth service: %v", err)
	}
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	guestHandler := handlers.NewGuestHandler(lifecycleService, requestService, logger)
	roomHandler := handlers.NewRoomHandler(lifecycleService)
	adminHandler := handlers.NewAdminHandler(lifecycleService, requestService, logger)
	requestHandler := handlers.NewRequestHandler(requestService)
	eventsHandler := handlers.NewEventsHandler(bus, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(st))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Guest-facing routes (public)
		v1.GET("/rooms", roomHandler.ListRooms)
		v1.GET("/rooms/availability", roomHandler.Availability)
		v1.POST("/check-in", guestHandler.CheckIn)
		v1.POST("/reservations", guestHandler.CreateReservation)

		stays := v1.Group("/stays")
		{
			stays.GET("/:booking", guestHandler.FindStay)
			stays.POST("/:booking/requests", guestHandler.CreateRequest)
			stays.POST("/:booking/checkout", guestHandler.Checkout)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.POST("/login", authHandler.Login)
			admin.POST("/refresh", authHandler.Refresh)

			// Protected routes (require JWT authentication)
			protected := admin.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("/logout", authHandler.Logout)
				protected.GET("/sessions", authHandler.Sessions)

				protected.GET("/arrivals", adminHandler.ListArrivals)
				protected.POST("/arrivals", adminHandler.CreateArrival)
				protected.POST("/arrivals/:id/check-in", adminHandler.CheckInArrival)
				protected.POST("/arrivals/:id/cancel", adminHandler.CancelArrival)

				protected.GET("/in-house", adminHandler.ListInHouse)
				protected.POST("/in-house/:id/check-out", adminHandler.CheckOutGuest)

				protected.GET("/checkouts", adminHandler.ListCheckouts)

				protected.GET("/guests/:id", adminHandler.GetGuest)
				protected.DELETE("/guests/:id", adminHandler.DeleteGuest)

				protected.GET("/requests", requestHandler.List)
				protected.PUT("/requests/:id/status", requestHandler.UpdateStatus)
				protected.PUT("/requests/:id/assign", requestHandler.Assign)
				protected.DELETE("/requests/:id", requestHandler.Delete)

				protected.GET("/revenue", adminHandler.Revenue)
				protected.GET("/dashboard/stats", adminHandler.DashboardStats)

				protected.GET("/events", eventsHandler.Stream)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// openStore picks the persistence backend from configuration.
func openStore(cfg config.StoreConfig, logger *logrus.Logger) (store.Store, error) {
	switch cfg.Backend {
	case "postgres":
		return store.OpenSQLStore(store.SQLConfig{
			URL:                cfg.DatabaseURL,
			MaxConnections:     cfg.MaxConnections,
			MaxIdleConnections: cfg.MaxIdleConnections,
		}, logger)
	default:
		return store.OpenFileStore(cfg.FilePath, logger)
	}
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeStatus := "healthy"
		if err := st.Ping(); err != nil {
			storeStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"store":  storeStatus,
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"store":     storeStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
