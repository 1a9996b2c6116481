package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"boxoffice/config"
	"boxoffice/internal/cache"
	"boxoffice/internal/clock"
	"boxoffice/internal/database"
	"boxoffice/internal/handler"
	"boxoffice/internal/ledger"
	"boxoffice/internal/metrics"
	"boxoffice/internal/middleware"
	"boxoffice/internal/queue"
	"boxoffice/internal/repository"
	"boxoffice/internal/scheduler"
	"boxoffice/internal/service"
	"boxoffice/internal/store"
	"boxoffice/internal/worker"
	"boxoffice/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	archiveRepo := repository.NewArchiveRepository(pool)
	if err := archiveRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure archive schema: %v", err)
	}

	var archiveQueue queue.ArchiveQueue
	if cfg.Archive.Backend == "redis" {
		archiveQueue, err = queue.NewRedisStreamArchiveQueue(rdb, "", nil)
		if err != nil {
			log.Fatalf("Failed to initialize archive queue: %v", err)
		}
	} else {
		archiveQueue = queue.NewArchiveQueue(cfg.Archive.BufferSize)
	}

	archiveWorker := worker.NewArchiveWorker(archiveRepo, archiveQueue)
	go func() {
		if err := archiveWorker.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Archive worker stopped: %v", err)
		}
	}()

	clk := clock.NewSystem()
	reservationService := service.NewReservationService(
		ledger.NewEventLedger(),
		store.NewHoldStore(),
		clk,
		metrics.NewRedisSink(rdb),
		cache.NewHoldExpiryCache(rdb),
		archiveQueue,
		service.TTLPolicy{
			Default: cfg.Hold.DefaultTTL,
			Min:     cfg.Hold.MinTTL,
			Max:     cfg.Hold.MaxTTL,
		},
	)

	sweeper := scheduler.NewExpirySweeper(reservationService, clk, cfg.Hold.SweepInterval)
	go sweeper.Start(ctx)

	router := gin.Default()
	router.Use(middleware.CorrelationID())
	handler.NewEventHandler(reservationService).RegisterRoutes(router)
	handler.NewHoldHandler(reservationService).RegisterRoutes(router)
	handler.NewBookingHandler(reservationService).RegisterRoutes(router)
	handler.NewMetricsHandler(reservationService).RegisterRoutes(router)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
