package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/fcode/course-platform-backend/config"
	"github.com/fcode/course-platform-backend/ratelimit"
	"github.com/fcode/course-platform-backend/repository"
	"github.com/fcode/course-platform-backend/routes"
	"github.com/fcode/course-platform-backend/services"
	"github.com/fcode/course-platform-backend/utils"
	"github.com/fcode/course-platform-backend/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("JWT_SECRET not set, using the development default")
	}

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("database init failed", "err", err)
		os.Exit(1)
	}

	rdb, err := config.InitRedis(cfg)
	if err != nil {
		slog.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	hub := ws.NewHub()
	jobs, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	services.StartChatCleanup(jobs, store, cfg.ChatRetention, services.ChatCleanupInterval)

	deps := routes.Deps{
		Store:          store,
		Tokens:         utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		Hub:            hub,
		Redis:          rdb,
		APILimiter:     newLimiter(rdb, "course:ratelimit:api", cfg.APIRateLimit),
		ChatLimiter:    newLimiter(rdb, "course:ratelimit:chat", cfg.ChatRateLimit),
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSOrigins,
	}
	if images := utils.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket); images != nil {
		deps.Images = images
	} else {
		slog.Warn("supabase not configured, image uploads disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r = routes.SetupRouter(r, deps)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Course platform server is running")
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "port", cfg.Port, "store", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopJobs()
	hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}

func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.DBDriver == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return repository.NewGormStore(db), nil
}

// newLimiter returns a nil interface when redis is off or the limit is 0.
func newLimiter(rdb *redis.Client, prefix string, perMinute int) ratelimit.Limiter {
	if rdb == nil || perMinute <= 0 {
		return nil
	}
	limiter, err := ratelimit.NewFixedWindowLimiter(rdb, prefix, perMinute, time.Minute)
	if err != nil {
		slog.Error("rate limiter disabled", "prefix", prefix, "err", err)
		return nil
	}
	return limiter
}

// corsConfig treats "*" as allow-all; cookies are then not allowed.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
