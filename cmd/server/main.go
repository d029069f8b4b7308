package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	_ "fitlog/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"fitlog/internal/auth"
	"fitlog/internal/cache"
	"fitlog/internal/config"
	"fitlog/internal/db"
	"fitlog/internal/handler"
	"fitlog/internal/repository"
	"fitlog/internal/router"
	"fitlog/internal/seed"
	"fitlog/internal/service"
)

// @title Fitlog API
// @version 1.0
// @description Fitness tracking API: exercise library, multi-level training routines and workout sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: failed to drop tables: %v", err)
		} else {
			log.Println("Tables dropped")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient == nil {
		log.Println("REDIS_ADDR is empty, running without cache; refresh tokens will be rejected")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			log.Printf("Warning: redis unreachable at %s: %v", cfg.RedisAddr, err)
		}
		cancel()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	exerciseRepo := repository.NewExerciseRepository(gormDB)
	routineRepo := repository.NewRoutineRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	exerciseService := service.NewExerciseService(exerciseRepo, cacheClient)
	routineService := service.NewRoutineService(routineRepo, exerciseRepo)
	sessionService := service.NewSessionService(sessionRepo, routineRepo, exerciseRepo)

	router.Register(e, authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Exercise: handler.NewExerciseHandler(exerciseService),
		Routine:  handler.NewRoutineHandler(routineService),
		Session:  handler.NewSessionHandler(sessionService),
		Seed:     handler.NewSeedHandler(seed.NewSeeder(exerciseRepo)),
	})

	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
