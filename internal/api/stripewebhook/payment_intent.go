package stripewebhooks

import (
	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// handlePaymentIntent feeds a verified intent event into payment confirmation.
// The intent id is the stored order id; the event signature has already been
// checked, so no order signature is passed on.
func (h *Handler) handlePaymentIntent(c *gin.Context, intent *stripe.PaymentIntent, status string, raw []byte) (*workflow.PaymentOutcome, error) {
	paymentID := intent.ID
	if intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		paymentID = intent.LatestCharge.ID
	}

	return h.svc.ConfirmPayment(c.Request.Context(), workflow.PaymentCallback{
		OrderID:   intent.ID,
		PaymentID: paymentID,
		Status:    status,
		Raw:       raw,
	})
}
