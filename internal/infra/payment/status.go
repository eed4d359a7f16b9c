package payment

import (
	"strings"

	"conference-app/internal/domain/conference"
)

// Provider status values as they arrive on the webhook.
const (
	StatusCaptured = "captured"
	StatusFailed   = "failed"
)

// NormalizeStatus maps a provider payment status onto a transaction status.
// Only "captured" completes a payment; anything else is a failure.
func NormalizeStatus(s string) conference.PaymentStatus {
	if strings.EqualFold(strings.TrimSpace(s), StatusCaptured) {
		return conference.PaymentCompleted
	}
	return conference.PaymentFailed
}

// StripeEventStatus translates the Stripe payment_intent events we listen to
// into the provider status vocabulary above.
func StripeEventStatus(eventType string) (string, bool) {
	switch eventType {
	case "payment_intent.succeeded":
		return StatusCaptured, true
	case "payment_intent.payment_failed", "payment_intent.canceled":
		return StatusFailed, true
	default:
		return "", false
	}
}
