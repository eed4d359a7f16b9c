package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conference-app/config"
	"conference-app/database"
	"conference-app/internal/infra/cache"
	"conference-app/internal/infra/logging"
	"conference-app/internal/infra/mail"
	"conference-app/internal/infra/payment"
	"conference-app/internal/infra/storage"
	"conference-app/internal/workflow"

	"github.com/rs/zerolog"
)

// dedupeTTL is how long a sent payment confirmation is remembered.
const dedupeTTL = 7 * 24 * time.Hour

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	svc     *workflow.Service
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}

func newApp() (*app, error) {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)
	a := &app{cfg: cfg, log: log}

	db, err := database.Init(cfg.DBURL, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, database.Close)

	files, err := newFileStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	gateway, err := payment.New(payment.Config{
		Provider:          cfg.PaymentProvider,
		RazorpayKeyID:     cfg.RazorpayKeyID,
		RazorpayKeySecret: cfg.RazorpayKeySecret,
		StripeSecretKey:   cfg.StripeSecretKey,
	})
	if err != nil {
		if !errors.Is(err, payment.ErrNotConfigured) {
			a.Close()
			return nil, err
		}
		log.Warn().Err(err).Msg("payment provider not configured; payment initiation disabled")
	}

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if !mailer.IsConfigured() {
		log.Warn().Msg("SMTP not configured; notifications will be skipped")
	}

	deps := workflow.Deps{
		DB:             db,
		Files:          files,
		Gateway:        gateway,
		Notifier:       mail.NewNotifier(mailer, cfg.ConferenceName),
		Logger:         log,
		AppURL:         cfg.AppURL,
		Currency:       cfg.PaymentCurrency,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	if cfg.RedisURL != "" {
		dedupe, err := cache.NewRedisDeduper(cfg.RedisURL, dedupeTTL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; confirmation e-mails are not de-duplicated")
		} else {
			deps.Dedupe = dedupe
			a.closers = append(a.closers, dedupe.Close)
		}
	}

	a.svc = workflow.New(deps)
	return a, nil
}

func newFileStore(cfg *config.Config) (*storage.Adapter, error) {
	switch cfg.StorageDriver {
	case "s3":
		backend, err := storage.NewS3Backend(storage.S3Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			CDNURL:    cfg.S3CDNURL,
		})
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		return storage.NewAdapter(backend), nil
	case "", "disk":
		return storage.NewAdapter(storage.NewDiskBackend(cfg.UploadDir, cfg.AppURL)), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// migrate runs the schema migration on the opened pool.
func (a *app) migrate(ctx context.Context) error {
	if err := database.Migrate(database.Get().WithContext(ctx)); err != nil {
		return err
	}
	a.log.Info().Msg("schema migrated")
	return nil
}
