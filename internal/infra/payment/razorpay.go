package payment

import (
	"context"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Razorpay creates orders through the Orders API and checks checkout signatures
// (HMAC-SHA256 of "order_id|payment_id" with the key secret).
type Razorpay struct {
	client *razorpay.Client
	keyID  string
	secret string
}

func NewRazorpay(keyID, secret string) *Razorpay {
	return &Razorpay{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

func (r *Razorpay) Name() string { return ProviderRazorpay }

// CreateOrder ignores ctx: the SDK has no context-aware calls.
func (r *Razorpay) CreateOrder(_ context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*Order, error) {
	rzpNotes := make(map[string]interface{}, len(notes))
	for k, v := range notes {
		rzpNotes[k] = v
	}

	body, err := r.client.Order.Create(map[string]interface{}{
		"amount":   minorUnits(amount),
		"currency": strings.ToUpper(currency),
		"receipt":  receipt,
		"notes":    rzpNotes,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id := cast.ToString(body["id"])
	if id == "" {
		return nil, fmt.Errorf("razorpay order create: response without id")
	}

	return &Order{
		ID:       id,
		Amount:   fromMinorUnits(cast.ToInt64(body["amount"])),
		Currency: cast.ToString(body["currency"]),
		KeyID:    r.keyID,
	}, nil
}

func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	return rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, r.secret)
}
