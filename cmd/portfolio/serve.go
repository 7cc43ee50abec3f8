package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/reyesjorge76/jr-portfolio/internal/analytics"
	"github.com/reyesjorge76/jr-portfolio/internal/config"
	"github.com/reyesjorge76/jr-portfolio/internal/contact"
	"github.com/reyesjorge76/jr-portfolio/internal/content"
	"github.com/reyesjorge76/jr-portfolio/internal/demo"
	"github.com/reyesjorge76/jr-portfolio/internal/logging"
	"github.com/reyesjorge76/jr-portfolio/internal/metrics"
	"github.com/reyesjorge76/jr-portfolio/internal/ratelimit"
	"github.com/reyesjorge76/jr-portfolio/internal/server"
	"github.com/reyesjorge76/jr-portfolio/internal/store"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("port"); v != "" {
			cfg.Port = v
		}
		if v, _ := cmd.Flags().GetString("db"); v != "" {
			cfg.DatabasePath = v
		}
		if v, _ := cmd.Flags().GetString("log-level"); v != "" {
			cfg.LogLevel = v
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on; overrides PORT")
	serveCmd.Flags().String("db", "", "SQLite database path; overrides DATABASE_PATH")
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.DefaultAdmin {
		logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	site, err := content.Default()
	if err != nil {
		return err
	}

	m := metrics.New()
	tracker := analytics.New(db,
		analytics.WithRetention(cfg.VisitorRetention),
		analytics.WithLogger(logger),
	)

	limiter, closeLimiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	contactOpts := []contact.Option{
		contact.WithLimiter(limiter),
		contact.WithLogger(logger),
		contact.WithObserver(func(o contact.Outcome) {
			m.ContactMessages.WithLabelValues(string(o)).Inc()
		}),
	}
	if cfg.SMTP.Enabled() {
		contactOpts = append(contactOpts, contact.WithNotifier(contact.NewMailer(cfg.SMTP)))
	} else {
		logger.Warn("SMTP credentials not configured; contact messages are stored only")
	}
	contacts := contact.NewService(contact.NewInbox(db), contactOpts...)

	demos := demo.NewManager(
		demo.WithTick(cfg.TickInterval),
		demo.WithIdleTimeout(cfg.SessionIdleTimeout),
		demo.WithMaxSessions(cfg.MaxSessions),
		demo.WithLogger(logger),
		demo.WithHooks(demoHooks(ctx, m, tracker, logger)),
	)

	srv := server.New(server.Deps{
		Config:  cfg,
		Logger:  logger,
		Site:    site,
		DB:      db,
		Demos:   demos,
		Contact: contacts,
		Tracker: tracker,
		Metrics: m,
	})

	bg, cancelBG := context.WithCancel(context.Background())
	defer cancelBG()
	go demos.Run(bg, time.Minute)
	go tracker.RunCleanup(bg, 24*time.Hour)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr, "version", Version)
		serverErrors <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			_ = httpSrv.Close()
		}
	}

	cancelBG()
	demos.Shutdown()
	tracker.Wait()
	logger.Info("server stopped")
	return nil
}

// newLimiter picks the Redis limiter when REDIS_URL is set and the
// in-process one otherwise.
func newLimiter(ctx context.Context, cfg config.Config, logger *slog.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RedisURL != "" {
		r, err := ratelimit.NewRedis(cfg.RedisURL, cfg.ContactRateLimit, cfg.ContactRateWindow)
		if err != nil {
			return nil, nil, err
		}
		if err := r.Ping(ctx); err != nil {
			logger.Warn("redis unreachable; contact limiter fails open until it returns", "error", err)
		}
		return r, func() { _ = r.Close() }, nil
	}

	mem := ratelimit.NewMemory(cfg.ContactRateLimit, cfg.ContactRateWindow)
	pctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(cfg.ContactRateWindow)
		defer ticker.Stop()
		for {
			select {
			case <-pctx.Done():
				return
			case <-ticker.C:
				mem.Prune()
			}
		}
	}()
	return mem, cancel, nil
}

func demoHooks(ctx context.Context, m *metrics.Metrics, tracker *analytics.Tracker, logger *slog.Logger) demo.Hooks {
	return demo.Hooks{
		OnCreate: func(kind demo.Kind) {
			m.DemoLaunches.WithLabelValues(string(kind)).Inc()
			m.DemoSessions.WithLabelValues(string(kind)).Inc()
			if err := tracker.RecordLaunch(ctx, string(kind)); err != nil {
				logger.Error("recording demo launch", "kind", kind, "error", err)
			}
		},
		OnClose: func(kind demo.Kind, _ string) {
			m.DemoSessions.WithLabelValues(string(kind)).Dec()
		},
		OnAction: func(kind demo.Kind, action string, err error) {
			outcome := "ok"
			switch {
			case errors.Is(err, demo.ErrUnknownAction):
				// action comes from the URL; keep label cardinality fixed
				action, outcome = "unknown", "error"
			case demo.IsRejection(err):
				outcome = "rejected"
			case err != nil:
				outcome = "error"
			}
			m.DemoActions.WithLabelValues(string(kind), action, outcome).Inc()
		},
	}
}
