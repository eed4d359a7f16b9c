package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapi "conference-app/internal/api/admin"
	"conference-app/internal/api/abstracts"
	authapi "conference-app/internal/api/auth"
	"conference-app/internal/api/payments"
	"conference-app/internal/api/registrations"
	stripewebhooks "conference-app/internal/api/stripewebhook"
	"conference-app/internal/api/transactions"
	routes "conference-app/internal/app/http"
	"conference-app/internal/app/http/middleware"
	"conference-app/internal/jobs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled jobs",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on start")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !skipMigrate {
		if err := a.migrate(cmd.Context()); err != nil {
			return err
		}
	}

	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.log))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if a.cfg.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{a.cfg.CORSOrigin}
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	h := routes.Handlers{
		Registrations: registrations.NewHandler(a.svc, a.log),
		Abstracts:     abstracts.NewHandler(a.svc, a.log),
		Payments:      payments.NewHandler(a.svc, a.log),
		Stripe:        stripewebhooks.NewHandler(a.svc, a.log, a.cfg.StripeWebhookSecret),
		Transactions:  transactions.NewHandler(a.svc, a.log),
		Admin:         adminapi.NewHandler(a.svc, a.log),
		Auth: authapi.NewHandler(authapi.Config{
			JWTSecret:              a.cfg.JWTSecret,
			AdminEmail:             a.cfg.AdminEmail,
			AdminPasswordHash:      a.cfg.AdminPasswordHash,
			AdminEmails:            a.cfg.AdminEmails,
			GoogleClientID:         a.cfg.GoogleClientID,
			GoogleClientSecret:     a.cfg.GoogleClientSecret,
			GoogleRedirectURL:      a.cfg.GoogleRedirectURL,
			GoogleFrontendRedirect: a.cfg.GoogleFrontendRedirect,
		}, a.log),
		JWTSecret: a.cfg.JWTSecret,
	}
	if a.cfg.StorageDriver == "" || a.cfg.StorageDriver == "disk" {
		h.UploadDir = a.cfg.UploadDir
	}
	routes.RegisterRoutes(r, h)

	scheduler := jobs.NewManager(jobs.Config{
		ReminderSchedule: a.cfg.ReminderSchedule,
		ReminderAfter:    a.cfg.ReminderAfter,
	}, a.svc, a.log)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		a.log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("error shutting down server")
	}
	a.log.Info().Msg("shutdown complete")
	return nil
}
