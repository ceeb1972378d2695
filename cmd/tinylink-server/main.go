package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/tinylink/pkg/tinylink/cache"
	"github.com/mikepea/tinylink/pkg/tinylink/config"
	"github.com/mikepea/tinylink/pkg/tinylink/database"
	"github.com/mikepea/tinylink/pkg/tinylink/server"
	"github.com/redis/go-redis/v9"
)

// @title TinyLink API
// @version 1.0
// @description A URL shortener with per-link click statistics.

// @contact.name TinyLink Support
// @contact.url https://github.com/mikepea/tinylink

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin JWT from /auth/login, only when ADMIN_PASSWORD_HASH is set. Format: "Bearer {token}"

func main() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// run serves until ctx is cancelled. Every resource it opens is closed before it
// returns, including on startup failures.
func run(ctx context.Context, cfg *config.Config) error {
	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.Ping(startupCtx, db); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := database.Bootstrap(startupCtx, db, cfg.LinksTable); err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	log.Printf("Table %q is ready", cfg.LinksTable)

	var redisClient redis.UniversalClient
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		defer rc.Close()
		if err := rc.Ping(startupCtx).Err(); err != nil {
			return fmt.Errorf("redis unreachable: %w", err)
		}
		redisClient = rc
		log.Println("Redis connected, redirect cache enabled")
	}

	srv, err := server.New(cfg, db, redisClient)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	return srv.Run(ctx)
}
