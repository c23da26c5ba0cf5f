// File: visitcare/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visitcare/config"
	"visitcare/cron"
	"visitcare/database"
	therapistRepo "visitcare/database/repository/therapist"
	"visitcare/handlers"
	"visitcare/middleware"
	"visitcare/routes"
	"visitcare/services/booking"
	"visitcare/services/matching"
	"visitcare/services/notification"
	"visitcare/services/routing"
	"visitcare/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	repo := therapistRepo.NewMongoTherapistRepo()

	// Services.
	routingClient := routing.NewOpenRouteClient()
	matchingService := matching.NewMatchingService(repo, routingClient, matching.Options{
		DefaultMaxDistanceMeters: config.AppConfig.DefaultMaxDistanceMeters,
		GeoConcurrency:           config.AppConfig.GeoConcurrency,
		RegionAliases:            config.AppConfig.RegionAliases,
	})
	sessionService := &booking.DefaultBookingSessionService{
		MatchingSvc: matchingService,
		Repo:        repo,
		Reminders:   booking.NewReminderClient(),
	}

	// Handlers.
	matchingHandler := handlers.NewMatchingHandler(matchingService, repo)
	bookingHandler := handlers.NewBookingHandler(sessionService)

	routes.RegisterSystemRoutes(router)
	routes.RegisterMatchingRoutes(router, matchingHandler)
	routes.RegisterBookingRoutes(router, bookingHandler)

	// Background workers and monitors.
	cron.InitReminderWorker(&notification.LogSink{Logger: logger})
	utils.StartHealthMonitor(map[string]*redis.Client{
		"cache":    utils.GetCacheClient(),
		"sessions": utils.GetSessionCacheClient(),
	}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
