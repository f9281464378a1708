package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruitd/config"
	"recruitd/cron"
	"recruitd/database"
	directoryRepo "recruitd/database/repository/directory"
	negotiationRepo "recruitd/database/repository/negotiation"
	scheduleRepo "recruitd/database/repository/schedule"
	"recruitd/handlers"
	"recruitd/routes"
	"recruitd/services/alerts"
	"recruitd/services/negotiation"
	"recruitd/services/scheduling"
	"recruitd/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Queue client shared by the emitters; the worker consumes the same DB.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Repositories.
	db := database.DB()
	negRepo := negotiationRepo.NewMongoNegotiationRepo(db)
	schedRepo := scheduleRepo.NewMongoScheduleRepo(db)
	dirRepo := directoryRepo.NewMongoDirectoryRepo(db, utils.GetCacheClient(),
		time.Duration(config.AppConfig.DirectoryTTLMin)*time.Minute)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelIndex()
	if err := negRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure negotiation indexes: %v", err)
	}
	if err := schedRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}

	// Services.
	emitter := alerts.NewAsynqEmitter(queueClient, logger)

	negotiationService := &negotiation.DefaultNegotiationService{
		Repo:      negRepo,
		Directory: dirRepo,
		Alerts:    emitter,
		Logger:    logger,
		Defaults: negotiation.Defaults{
			MaxRounds:              config.AppConfig.DefaultMaxRounds,
			TargetMarginPercentage: config.AppConfig.DefaultTargetMargin,
		},
	}
	schedulingService := &scheduling.DefaultSchedulingService{
		Repo:      schedRepo,
		Alerts:    emitter,
		Reminders: emitter,
		Logger:    logger,
	}

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Negotiations: handlers.NewNegotiationHandler(negotiationService),
		Schedules:    handlers.NewScheduleHandler(schedulingService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker for alerts and reminder delivery.
	worker := cron.InitWorker()

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

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
