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
	"github.com/justsurfingit/jobx/internal/app"
	"github.com/justsurfingit/jobx/internal/config"
	"github.com/justsurfingit/jobx/internal/database"
	"github.com/justsurfingit/jobx/internal/handlers"
	"github.com/justsurfingit/jobx/internal/logging"
	"github.com/justsurfingit/jobx/internal/middleware"
	"github.com/justsurfingit/jobx/internal/realtime"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, c.DB, log); err != nil {
		return err
	}
	c.StartBackplane(ctx)
	c.Sweeper.Start(ctx, cfg.SweepInterval)

	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(middleware.RequestID(), middleware.AccessLog(log), middleware.Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.Register(r, handlers.Deps{
		Auth:          c.Auth,
		Companies:     c.Companies,
		Postings:      c.Postings,
		Drafts:        c.Drafts,
		Applications:  c.Applications,
		Chat:          c.Chat,
		CVs:           c.CVs,
		Notifications: c.Notifications,
		Socket:        realtime.NewServer(c.Hub, c.Chat, log),
		Tokens:        c.Tokens,
		Files:         c.Files,
		LoginLimiter:  c.LoginLimiter(),
		DB:            sqlDB,
		CookieSecure:  cfg.CookieSecure,
		Log:           log,
	})

	// no read/write timeouts: websocket connections are long-lived
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		c.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	c.Close()
	return nil
}
