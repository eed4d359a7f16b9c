package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conference-app/internal/domain/billing"
	"conference-app/internal/infra/mail"
	"conference-app/internal/infra/payment"
	"conference-app/internal/infra/storage"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// FileStore stores uploaded documents and scan-code images.
type FileStore interface {
	Store(ctx context.Context, data []byte, mimeType, folder, filename string) (*storage.File, error)
	ScanCodeImage(ctx context.Context, text string) (string, error)
}

// Notifier sends the transactional e-mails.
type Notifier interface {
	RegistrationConfirmation(ctx context.Context, m mail.RegistrationMail) error
	AbstractSubmitted(ctx context.Context, m mail.AbstractMail) error
	AbstractReviewed(ctx context.Context, m mail.ReviewMail) error
	PaymentConfirmation(ctx context.Context, m mail.PaymentMail) error
	PaymentReminder(ctx context.Context, m mail.ReminderMail) error
}

// Deduper reports whether a key is seen for the first time. Forget releases a
// key so the next FirstSeen reports it as new again.
type Deduper interface {
	FirstSeen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

type Deps struct {
	DB       *gorm.DB
	Files    FileStore
	Gateway  payment.Gateway // nil when no provider is configured
	Notifier Notifier
	Dedupe   Deduper // optional
	Logger   zerolog.Logger

	AppURL         string
	Currency       string
	MaxUploadBytes int64
}

// Service runs the registration, abstract and payment workflows. It holds no
// mutable state; every call is a short sequence of store reads/writes and
// outbound calls.
type Service struct {
	db       *gorm.DB
	files    FileStore
	gateway  payment.Gateway
	notifier Notifier
	dedupe   Deduper
	log      zerolog.Logger

	appURL    string
	currency  string
	maxUpload int64
	now       func() time.Time
}

func New(d Deps) *Service {
	currency := strings.ToUpper(strings.TrimSpace(d.Currency))
	if currency == "" {
		currency = billing.DefaultCurrency
	}
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Service{
		db:        d.DB,
		files:     d.Files,
		gateway:   d.Gateway,
		notifier:  d.Notifier,
		dedupe:    d.Dedupe,
		log:       d.Logger,
		appURL:    strings.TrimRight(d.AppURL, "/"),
		currency:  currency,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

func (s *Service) receiptURL(txID uint) string {
	return fmt.Sprintf("%s/transactions/%d/receipt", s.appURL, txID)
}

func (s *Service) paymentLink(registrationID uint) string {
	return fmt.Sprintf("%s/payment?registrationId=%d", s.appURL, registrationID)
}

// bestEffort logs a failed notification; the calling operation carries on.
func (s *Service) bestEffort(kind, to string, err error) {
	if err == nil {
		return
	}
	s.log.Warn().Err(err).Str("notification", kind).Str("to", to).Msg("notification not sent")
}

// MaxUploadBytes is the largest accepted document size.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxUpload
}
