package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"conference-app/internal/api/response"
	"conference-app/internal/infra/payment"
	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

type Handler struct {
	svc            *workflow.Service
	log            zerolog.Logger
	endpointSecret string
}

func NewHandler(svc *workflow.Service, log zerolog.Logger, endpointSecret string) *Handler {
	return &Handler{svc: svc, log: log, endpointSecret: endpointSecret}
}

// POST /payments/webhook/stripe
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.endpointSecret == "" {
		response.Error(c, http.StatusInternalServerError, "STRIPE_WEBHOOK_SECRET not configured")
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Error reading request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn().Err(err).Msg("stripe signature verification failed")
		response.BadRequest(c, "Invalid signature")
		return
	}

	status, ok := payment.StripeEventStatus(string(event.Type))
	if !ok {
		// Acknowledge unknown events to avoid retries
		response.SuccessWithMessage(c, "ignored", nil)
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		response.BadRequest(c, "Failed to parse payment intent")
		return
	}

	out, err := h.handlePaymentIntent(c, &intent, status, event.Data.Raw)
	if err != nil {
		// unknown intents are not ours; acknowledge them
		if workflow.KindOf(err) == workflow.KindNotFound {
			h.log.Info().Str("payment_intent", intent.ID).Msg("stripe event for unknown order")
			response.SuccessWithMessage(c, "ignored", nil)
			return
		}
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "received", out)
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
