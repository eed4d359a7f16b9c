package payments

import (
	"encoding/json"
	"io"
	"net/http"

	"conference-app/internal/api/response"
	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

const maxWebhookBody = 65536

type Handler struct {
	svc *workflow.Service
	log zerolog.Logger
}

func NewHandler(svc *workflow.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// POST /payments/initiate
func (h *Handler) Initiate(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// ids arrive as numbers or numeric strings
	input := workflow.InitiatePaymentInput{
		RegistrationID: cast.ToUint(body["registrationId"]),
		TransactionID:  cast.ToUint(body["transactionId"]),
	}

	order, err := h.svc.InitiatePayment(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, order)
}

// POST /payments/webhook
func (h *Handler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Error reading request body")
		return
	}

	cb, err := parseCallback(payload)
	if err != nil {
		response.BadRequest(c, "Malformed JSON")
		return
	}
	if sig := c.GetHeader("X-Razorpay-Signature"); sig != "" {
		cb.Signature = sig
	}

	out, err := h.svc.ConfirmPayment(c.Request.Context(), cb)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Payment status updated", out)
}

// parseCallback accepts the flat callback form
// {order_id, id | payment_id, status, razorpay_signature} and the event form
// {event, payload: {payment: {entity: {...}}}}.
func parseCallback(payload []byte) (workflow.PaymentCallback, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return workflow.PaymentCallback{}, err
	}

	entity := body
	if p, ok := body["payload"].(map[string]interface{}); ok {
		if pay, ok := p["payment"].(map[string]interface{}); ok {
			if e, ok := pay["entity"].(map[string]interface{}); ok {
				entity = e
			}
		}
	}

	cb := workflow.PaymentCallback{
		OrderID:   firstString(entity, "order_id", "razorpay_order_id"),
		PaymentID: firstString(entity, "id", "payment_id", "razorpay_payment_id"),
		Status:    cast.ToString(entity["status"]),
		Signature: firstString(body, "razorpay_signature", "signature"),
		Raw:       payload,
	}
	return cb, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v := cast.ToString(m[k]); v != "" {
			return v
		}
	}
	return ""
}
