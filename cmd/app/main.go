package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trainingplatform/config"
	"trainingplatform/internal/application/usecase"
	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
	"trainingplatform/internal/infrastructure/security"
	"trainingplatform/internal/middleware"
	handlers "trainingplatform/internal/transport/http"
)

func main() {
	// 1. Конфигурация
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. База данных
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Employee{},
		&domain.Platform{},
		&domain.Course{},
		&domain.Assignment{},
		&domain.StagingRecord{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// 3. Redis (кеш каталога и rate limiter)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			rdb = nil
		}
	}

	// 4. Репозитории
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	platformRepo := repository.NewPlatformRepository(db)
	courseRepo := repository.NewCourseRepository(db, rdb)
	assignmentRepo := repository.NewAssignmentRepository(db)

	// 5. Сервисы
	hasher := security.NewPasswordHasher(bcrypt.DefaultCost)
	tokenManager := security.NewTokenManager(
		cfg.AccessSecret, cfg.RefreshSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLHours)*time.Hour,
	)
	authUseCase := usecase.NewAuthUseCase(userRepo, hasher, tokenManager)
	assignmentImport := usecase.NewAssignmentImportService(db, employeeRepo, courseRepo)
	employeeImport := usecase.NewEmployeeImportService(db, employeeRepo)

	// 6. HTTP
	limiter := middleware.NewRateLimiter(rdb)
	router := handlers.NewRouter(
		handlers.NewAuthHandler(authUseCase),
		handlers.NewEmployeeHandler(employeeRepo),
		handlers.NewPlatformHandler(platformRepo),
		handlers.NewCourseHandler(courseRepo, platformRepo),
		handlers.NewAssignmentHandler(assignmentRepo, employeeRepo, courseRepo),
		handlers.NewImportHandler(assignmentImport, employeeImport),
		limiter,
		tokenManager,
	)

	log.Printf("Training platform API is running on %s...", cfg.HTTPPort)
	if err := router.Run(cfg.HTTPPort); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
