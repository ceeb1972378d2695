package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikepea/tinylink/pkg/tinylink/auth"
	"github.com/mikepea/tinylink/pkg/tinylink/cache"
	"github.com/mikepea/tinylink/pkg/tinylink/config"
	"github.com/mikepea/tinylink/pkg/tinylink/importexport"
	"github.com/mikepea/tinylink/pkg/tinylink/links"
	"github.com/mikepea/tinylink/pkg/tinylink/ratelimit"
	"github.com/mikepea/tinylink/pkg/tinylink/redirect"
	"github.com/mikepea/tinylink/pkg/tinylink/version"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/mikepea/tinylink/api/swagger"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP engine and its listener lifecycle
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
}

// New builds the router. redisClient may be nil, in which case redirects are not
// cached and rate limit counters stay in memory.
func New(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) (*Server, error) {
	engine, err := NewRouter(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, engine: engine}, nil
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// NewRouter creates a gin engine with all routes registered
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) (*gin.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Health check endpoint
	r.GET("/healthz", health)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var linkCache cache.Cache = cache.Nop{}
	if redisClient != nil {
		linkCache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
	}
	svc := links.NewService(db, links.Options{
		Table:   cfg.LinksTable,
		BaseURL: cfg.BaseURL,
		Cache:   linkCache,
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", health)

		linkRoutes := api.Group("")
		if cfg.AuthEnabled() {
			tokens := auth.NewTokens(cfg.JWTSecret)
			auth.NewHandler(cfg.AdminPassword, tokens).RegisterRoutes(api.Group("/auth"))
			linkRoutes.Use(auth.RequireAdmin(tokens))
		}

		var createMiddleware []gin.HandlerFunc
		if cfg.CreateRateLimit != "" {
			limit, err := ratelimit.New(cfg.CreateRateLimit, redisClient)
			if err != nil {
				return nil, err
			}
			createMiddleware = append(createMiddleware, limit)
		}

		links.NewHandler(svc).RegisterRoutes(linkRoutes, createMiddleware...)
		importexport.NewHandler(svc).RegisterRoutes(linkRoutes)
	}

	registerFrontend(r, cfg.WebDistPath)

	// Redirect routes (public, must be registered LAST to avoid conflicts)
	redirect.NewHandler(svc).RegisterRoutes(r)

	return r, nil
}

// health is a static liveness probe
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"version": version.Version,
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// registerFrontend serves the built dashboard if it exists.
// Any GET that is not an API or health route falls back to index.html.
func registerFrontend(r *gin.Engine, distPath string) {
	indexHTML := filepath.Join(distPath, "index.html")
	if _, err := os.Stat(indexHTML); err != nil {
		log.Printf("No frontend build found at %s - API only mode", distPath)
		r.NoRoute(notFound)
		return
	}

	r.Static("/assets", filepath.Join(distPath, "assets"))
	r.StaticFile("/favicon.ico", filepath.Join(distPath, "favicon.ico"))

	serveIndex := func(c *gin.Context) {
		c.File(indexHTML)
	}
	r.GET("/", serveIndex)
	r.GET("/code/:code", serveIndex)

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || isBackendPath(c.Request.URL.Path) {
			notFound(c)
			return
		}
		serveIndex(c)
	})

	log.Printf("Serving frontend from %s", distPath)
}

func isBackendPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/healthz")
}

func notFound(c *gin.Context) {
	if isBackendPath(c.Request.URL.Path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.String(http.StatusNotFound, "Not found")
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting TinyLink server on :%s (public URL %s)", s.cfg.Port, s.cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
