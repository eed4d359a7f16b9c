package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/paymentintent"
)

// Stripe models an order as a PaymentIntent. Its webhook is authenticated with the
// Stripe-Signature header instead of an order/payment signature.
type Stripe struct {
	intents paymentintent.Client
}

func NewStripe(secretKey string) *Stripe {
	return &Stripe{
		intents: paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (s *Stripe) Name() string { return ProviderStripe }

func (s *Stripe) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(minorUnits(amount)),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String(receipt),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range notes {
		params.AddMetadata(k, v)
	}

	pi, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	return &Order{
		ID:           pi.ID,
		Amount:       fromMinorUnits(pi.Amount),
		Currency:     strings.ToUpper(string(pi.Currency)),
		ClientSecret: pi.ClientSecret,
	}, nil
}

// VerifySignature always fails: Stripe confirmations arrive only through the signed webhook.
func (s *Stripe) VerifySignature(orderID, paymentID, signature string) bool {
	return false
}
