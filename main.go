// File: furever/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"furever/config"
	"furever/cron"
	"furever/database"
	availabilityRepo "furever/database/repository/availability"
	bookingRepo "furever/database/repository/booking"
	servicepkgRepo "furever/database/repository/servicepkg"
	"furever/handlers"
	"furever/middleware"
	"furever/routes"
	"furever/services/schedule"
	"furever/utils"
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

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()
	pkgRepo := servicepkgRepo.NewMongoServicePackageRepo()

	// scheduling engine registry.
	durableCache := schedule.NewRedisDurableCache(
		utils.GetAvailabilityCacheClient(),
		time.Duration(config.AppConfig.AvailabilityTTLHour)*time.Hour,
	)
	registry := schedule.NewRegistry(
		availRepo,
		bkRepo,
		pkgRepo,
		durableCache,
		logger,
		time.Duration(config.AppConfig.FetchTimeoutSec)*time.Second,
		time.Duration(config.AppConfig.RefreshIntervalSec)*time.Second,
	)

	taskClient := cron.NewTaskClient()
	defer taskClient.Close()

	scheduleHandler := handlers.NewScheduleHandler(registry, taskClient, logger)

	// Register routes.
	routes.RegisterRoutes(router, scheduleHandler)

	// Background refresh worker and health monitor.
	cron.InitRefreshWorker(registry)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAvailabilityCacheClient()},
		database.MongoClient,
	)

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

	registry.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
