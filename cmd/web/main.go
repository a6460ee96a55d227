package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/config"
	"mondedesparfum.com/admin/internal/datatable"
	apphttp "mondedesparfum.com/admin/internal/http"
	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/internal/logging"
	"mondedesparfum.com/admin/internal/metrics"
	"mondedesparfum.com/admin/internal/remoteselect"
	"mondedesparfum.com/admin/internal/session"
)

const (
	sessionCookie = "mdp_admin_session"
	flashCookie   = "mdp_admin_flash"

	// idle table controllers are dropped after this long
	tableIdle = 30 * time.Minute
	// keystrokes in an option search box closer than this are merged
	searchDebounce = 500 * time.Millisecond
	purgeEvery     = time.Hour
)

func main() {
	// .env is optional, production uses real env vars
	_ = godotenv.Load()

	boot := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.Load(boot)

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	api := apiclient.New(apiclient.Config{
		APIRoot: cfg.APIRoot,
		AppURL:  cfg.AppURL,
		Timeout: cfg.APITimeout,
		UseNext: cfg.UseNext,
	}, logger, m)

	store, storeCloser, err := openSessions(ctx, cfg, logger)
	if err != nil {
		logger.Error("session store unavailable", "driver", cfg.SessionDriver, "err", err)
		os.Exit(1)
	}
	if storeCloser != nil {
		defer storeCloser.Close()
	}

	router := apphttp.NewRouter(apphttp.Deps{
		Log:           logger,
		API:           api,
		Sessions:      store,
		Flash:         flash.NewCodec(cfg.FlashSecret, flashCookie, cfg.CookieSecure),
		Tables:        datatable.NewRegistry(tableIdle, m.IncSuperseded),
		Debounce:      remoteselect.NewDebouncer(searchDebounce),
		Metrics:       m,
		ImageMaxWidth: cfg.ImageMaxWidth,
		MediaBaseURL:  cfg.MediaBaseURL,
	})

	protect := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins(append([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port}, cfg.TrustedOrigin...)),
	)
	var handler http.Handler = protect(router)
	if !cfg.CookieSecure {
		// gorilla/csrf assumes TLS unless told otherwise
		next := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server_starting", "port", cfg.Port, "session_driver", cfg.SessionDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "err", err)
			os.Exit(1)
		}
	}()

	// scrapes stay off the public port
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("metrics_starting", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics_failed", "err", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "err", err)
		return
	}
	logger.Info("server_stopped")
}

// openSessions picks the session store for cfg.SessionDriver. The returned
// closer releases the backend connection, if any.
func openSessions(ctx context.Context, cfg *config.Config, l *slog.Logger) (session.Store, io.Closer, error) {
	switch cfg.SessionDriver {
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return &session.IDStore{
			Backend:    session.NewRedisBackend(rdb),
			CookieName: sessionCookie,
			Secure:     cfg.CookieSecure,
			TTL:        cfg.SessionTTL,
		}, rdb, nil

	case config.DriverDB:
		db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, err
		}
		backend := session.NewGormBackend(db)
		if err := backend.Migrate(); err != nil {
			return nil, nil, err
		}
		go purgeSessions(ctx, backend, l)

		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return &session.IDStore{
			Backend:    backend,
			CookieName: sessionCookie,
			Secure:     cfg.CookieSecure,
			TTL:        cfg.SessionTTL,
		}, sqlDB, nil

	default:
		return session.NewCookieStore(sessionCookie, cfg.SessionKey, cfg.CookieSecure), nil, nil
	}
}

func purgeSessions(ctx context.Context, b *session.GormBackend, l *slog.Logger) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := b.PurgeExpired(ctx)
			if err != nil {
				l.Warn("session_purge_failed", "err", err)
				continue
			}
			if n > 0 {
				l.Info("sessions_purged", "count", n)
			}
		}
	}
}
