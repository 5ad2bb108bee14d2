package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/accounts"
	"github.com/mvc-is/portal/internal/auth"
	"github.com/mvc-is/portal/internal/database"
	"github.com/mvc-is/portal/internal/email"
	"github.com/mvc-is/portal/internal/handlers"
	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/jobs"
	"github.com/mvc-is/portal/internal/metrics"
	"github.com/mvc-is/portal/internal/routes"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. --- Schema ---
	if err := database.Migrate(db); err != nil {
		return err
	}

	// 3. --- Sessions (Redis denylist is optional) ---
	m := metrics.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	var revocations auth.Revocations
	if cfg.RedisAddr != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		revocations = auth.NewRedisRevocations(rdb)
		log.Info("session revocation backed by redis", zap.String("addr", cfg.RedisAddr))
	} else {
		log.Warn("REDIS_ADDR not set: sign-out only clears the cookie")
	}
	sessions := &auth.CookieSessions{Tokens: tokens, Revocations: revocations, CookieName: cfg.CookieName}

	// --- Application Setup ---
	// Every dependency is injected into the Handlers struct.
	accountSvc := accounts.NewService(accounts.Deps{
		DB:          db,
		Tokens:      tokens,
		Revocations: revocations,
		Mailer:      email.LogMailer{Log: log.Named("email")},
		BaseURL:     cfg.BaseURL,
		Log:         log.Named("accounts"),
		Metrics:     m,
	})
	app := &handlers.Handlers{
		DB:       db,
		Store:    inventory.NewStore(db, log.Named("inventory"), m),
		Accounts: accountSvc,
		Sessions: sessions,
		Cookie:   handlers.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure, TTL: cfg.SessionTTL},
		Log:      log,
	}

	// 4. --- Background Workers (Cron) ---
	scheduler, err := jobs.Start(log, time.Minute, jobs.ResetPurge(cfg.PurgeSchedule, accountSvc, log))
	if err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	// --- Router Setup ---
	gin.SetMode(cfg.GinMode)
	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigin: cfg.AllowedOrigin,
		Sessions:      sessions,
		Metrics:       m,
		Log:           log,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting MVC portal server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
