package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trainingplatform/config"
	"trainingplatform/internal/application/usecase"
	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/cache"
	"trainingplatform/internal/infrastructure/repository"
	handlers "trainingplatform/internal/transport/http"
)

func main() {
	// 1. Конфигурация
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. База данных (общая с API)
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Employee{},
		&domain.Platform{},
		&domain.Course{},
		&domain.Assignment{},
		&domain.StagingRecord{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// 3. Redis: блокировка прогона между инстансами
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("Redis unavailable, running without distributed lock: %v", err)
			rdb = nil
		}
	}
	runLock := cache.NewRunLock(rdb, "processing:run_lock", 10*time.Minute)

	// 4. Пайплайн
	stagingRepo := repository.NewStagingRepository(db)
	ingestor := usecase.NewIngestor(
		stagingRepo,
		cfg.CSVInputFolder, cfg.JSONInputFolder,
		cfg.ProcessedFolder, cfg.ErrorFolder,
		cfg.CSVSkipLimit, cfg.ChunkSize,
	)
	pipeline := usecase.NewPipeline(db, stagingRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 5. Расписание
	if cfg.ProcessingEnabled {
		go runOnTicker(ctx, time.Duration(cfg.IngestIntervalSec)*time.Second, func() {
			if _, err := ingestor.IngestAll(ctx); err != nil {
				log.Printf("ingest run failed: %v", err)
			}
		})
		go runOnTicker(ctx, time.Duration(cfg.ProcessIntervalSec)*time.Second, func() {
			runProcessing(ctx, runLock, pipeline)
		})
	} else {
		log.Println("Scheduled processing is disabled")
	}

	// 6. Служебный HTTP
	router := handlers.NewProcessorRouter(handlers.NewProcessingHandler(ingestor, pipeline, runLock))
	go func() {
		log.Printf("Processing worker is running on %s...", cfg.ProcessorPort)
		if err := router.Run(cfg.ProcessorPort); err != nil {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down worker...")
	// Даем активному прогону шанс дописать транзакцию
	time.Sleep(time.Second)
	os.Exit(0)
}

func runOnTicker(ctx context.Context, interval time.Duration, job func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job()
		}
	}
}

func runProcessing(ctx context.Context, lock *cache.RunLock, pipeline *usecase.Pipeline) {
	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		log.Printf("run lock error: %v", err)
		return
	}
	if !acquired {
		log.Println("processing already running elsewhere, skipping")
		return
	}
	defer lock.Release(ctx)

	if _, err := pipeline.ProcessStaging(ctx); err != nil {
		log.Printf("processing run failed: %v", err)
	}
}
