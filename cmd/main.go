package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/container"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/internal/infrastructure/blob"
	"github.com/oksasatya/placement-portal/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/placement-portal/internal/infrastructure/postgres"
	"github.com/oksasatya/placement-portal/internal/infrastructure/search"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
	"github.com/oksasatya/placement-portal/internal/router"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/mailer"
	"github.com/oksasatya/placement-portal/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	var cleanups []func()
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	// Store
	var store repository.Store
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using the in-memory store; data is lost on restart")
		store = memory.New()
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		cleanups = append(cleanups, pool.Close)
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		store = pginfra.NewStore(pool)
	}

	// Redis backs the rate limiter and the statistics cache; both are
	// optional.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		helpers.LogError(logger, "redis unavailable; rate limiting and stats cache disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
		_ = rdb.Close()
		rdb = nil
	} else {
		cleanups = append(cleanups, func() { _ = rdb.Close() })
	}
	cancel()

	// Résumé storage
	blobs, closeBlobs, err := blob.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to init %s blob store: %v", cfg.BlobBackend, err)
	}
	cleanups = append(cleanups, func() { _ = closeBlobs() })

	// Job search
	index := jobIndex(cfg, logger)

	// Outbound email
	dispatcher, closeMail := emailDispatcher(cfg, logger)
	cleanups = append(cleanups, closeMail)

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetStore(store)
	container.SetBlobs(blobs)
	container.SetJobIndex(index)
	container.SetDispatcher(dispatcher)
	container.SetJWT(jwtManager)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

func jobIndex(cfg *config.Config, logger *logrus.Logger) application.JobIndex {
	if !cfg.SearchEnabled {
		return search.Disabled{}
	}
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		helpers.LogError(logger, "elasticsearch unavailable; job search disabled", err, nil)
		return search.Disabled{}
	}
	return search.NewJobIndex(es, cfg.ESJobsIndex)
}

// emailDispatcher queues mail for cmd/email_worker, or logs it when sending
// is switched off.
func emailDispatcher(cfg *config.Config, logger *logrus.Logger) (mailer.Dispatcher, func()) {
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; emails are logged, not sent")
		return mailer.NewLogDispatcher(logger), func() {}
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	return mailer.NewQueueDispatcher(pub), pub.Close
}
