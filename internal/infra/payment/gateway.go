package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderStripe   = "stripe"
)

var ErrNotConfigured = errors.New("payment provider not configured")

// Order is what the client-side checkout needs to take a payment.
type Order struct {
	ID           string
	Amount       decimal.Decimal
	Currency     string
	KeyID        string
	ClientSecret string
}

type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*Order, error)
	// VerifySignature checks a checkout signature computed over (orderID, paymentID).
	VerifySignature(orderID, paymentID, signature string) bool
}

type Config struct {
	Provider          string
	RazorpayKeyID     string
	RazorpayKeySecret string
	StripeSecretKey   string
}

// New builds the configured gateway.
func New(cfg Config) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderRazorpay:
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			return nil, fmt.Errorf("razorpay: %w", ErrNotConfigured)
		}
		return NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("stripe: %w", ErrNotConfigured)
		}
		return NewStripe(cfg.StripeSecretKey), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
