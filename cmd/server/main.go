package main

import (
	"context"   // Context for Redis ping and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signal channel
	"os/signal" // Signal notification
	"syscall"   // Termination signals
	"time"      // Shutdown timeout

	"wealthwise/internal/api"        // JSON API handlers
	"wealthwise/internal/config"     // Configuration
	"wealthwise/internal/db"         // Database connection
	"wealthwise/internal/domain"     // Asset categories
	"wealthwise/internal/metrics"    // Prometheus collectors
	"wealthwise/internal/middleware" // Middleware
	"wealthwise/internal/service"    // Services
	"wealthwise/internal/store"      // Repository
	"wealthwise/internal/web"        // HTML pages

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	categories, err := loadCategories(cfg)
	if err != nil {
		logrus.Fatalf("invalid asset categories: %v", err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.DBDriver == config.DriverSQLite {
		// The embedded database has no separate migration step
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
	}

	// Redis only holds revoked token ids; without it logout cannot revoke tokens
	var rdb redis.Cmdable
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		rdb = client
	} else {
		logrus.Warn("REDIS_ADDR not set; logout will not revoke tokens")
	}

	st := store.New(gdb)
	invites := service.NewInvites(st, cfg.BaseURL)
	accounts := service.NewAccounts(st, invites)
	ledger := service.NewLedger(st, categories)
	auth := &middleware.Auth{Secret: cfg.JWTSecret, Store: st, Redis: rdb}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.RequestLogger())
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		Accounts: accounts,
		Invites:  invites,
		Ledger:   ledger,
		Store:    st,
		Auth:     auth,
		Tokens:   api.TokenIssuer{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL},
		Redis:    rdb,
	})
	pages := &web.Pages{
		Accounts:     accounts,
		Invites:      invites,
		Ledger:       ledger,
		Store:        st,
		Auth:         auth,
		Secret:       cfg.JWTSecret,
		TTL:          cfg.JWTTTL,
		Redis:        rdb,
		SecureCookie: cfg.IsProd,
	}
	pages.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	logrus.Info("Server stopped")
}

// loadCategories picks the category file, then the inline list, then the defaults
func loadCategories(cfg *config.Config) (domain.CategorySet, error) {
	if cfg.CategoriesFile != "" {
		return domain.LoadCategoriesFile(cfg.CategoriesFile)
	}
	return domain.ParseCategories(cfg.AssetCategories)
}

// setupLogger configures the global logrus logger
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
