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

	"github.com/venuepoint/venue-booking-backend/internal/config"
	"github.com/venuepoint/venue-booking-backend/internal/database"
	"github.com/venuepoint/venue-booking-backend/internal/events"
	"github.com/venuepoint/venue-booking-backend/internal/handlers"
	"github.com/venuepoint/venue-booking-backend/internal/middleware"
	"github.com/venuepoint/venue-booking-backend/internal/models"
	"github.com/venuepoint/venue-booking-backend/internal/services"
	"github.com/venuepoint/venue-booking-backend/pkg/jwt"
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

	logger.Info("Starting VenuePoint Booking Backend")
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

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Redis for rate limiting (optional)
	rdb := config.NewRedisClient(cfg.RateLimit)
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connection established, login rate limiting enabled")
	} else {
		logger.Warn("Redis unavailable, login rate limiting disabled")
	}

	// Initialize event publisher
	var publisher events.Publisher
	if cfg.Events.URL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			logger.Fatalf("Failed to connect to message broker: %v", err)
		}
		logger.Info("Message broker connection established")
	} else {
		publisher = events.NoopPublisher{}
		logger.Warn("AMQP_URL not set, booking events disabled")
	}
	defer publisher.Close()

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	clock := services.SystemClock()

	userRepository := database.NewUserRepository(db)
	venueRepository := database.NewVenueRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	paymentRepository := database.NewPaymentRepository(db)
	ticketRepository := database.NewTicketRepository(db)

	paymentService := services.NewPaymentService(paymentRepository, bookingRepository, venueRepository, clock, logger)
	bookingService := services.NewBookingService(bookingRepository, venueRepository, paymentService, publisher, clock, logger)
	ticketService := services.NewTicketService(ticketRepository, clock, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepository, jwtService, logger)
	venueHandler := handlers.NewVenueHandler(venueRepository)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, bookingService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	dashboardHandler := handlers.NewDashboardHandler(bookingService, paymentService, ticketService, userRepository)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

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
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.RateLimit(cfg.RateLimit, rdb), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Venue routes
		venues := v1.Group("/venues")
		venues.Use(middleware.AuthMiddleware(jwtService))
		{
			venues.GET("", venueHandler.List)
			venues.GET("/:id", venueHandler.Get)

			staffOnly := venues.Group("")
			staffOnly.Use(middleware.RequireRole(models.RoleAdmin, models.RoleEventManager))
			{
				staffOnly.POST("", venueHandler.Create)
				staffOnly.PUT("/:id", venueHandler.Update)
				staffOnly.PUT("/:id/status", venueHandler.SetStatus)
			}
		}

		// Booking routes
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.POST("/:id/complete", middleware.RequireRole(models.RoleAdmin, models.RoleEventManager), bookingHandler.Complete)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthMiddleware(jwtService))
		{
			payments.POST("/process", paymentHandler.Process)
			payments.GET("", paymentHandler.List)
			payments.GET("/statistics", middleware.RequireRole(models.RoleAdmin, models.RoleEventManager), paymentHandler.Statistics)
		}

		// Support ticket routes
		tickets := v1.Group("/tickets")
		tickets.Use(middleware.AuthMiddleware(jwtService))
		{
			tickets.POST("", ticketHandler.Create)
			tickets.GET("", ticketHandler.List)
			tickets.POST("/:id/resolve", middleware.RequireRole(models.RoleAdmin, models.RoleEventManager), ticketHandler.Resolve)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/dashboard", dashboardHandler.Overview)
			admin.POST("/managers/:id/approve", dashboardHandler.ApproveManager)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
