package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"
	"conference-app/internal/infra/mail"
	"conference-app/internal/infra/payment"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InitiatePaymentInput struct {
	RegistrationID uint `json:"registrationId"`
	TransactionID  uint `json:"transactionId"`
}

type PaymentOrder struct {
	OrderID       string          `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TransactionID uint            `json:"transactionId"`
	UserID        uint            `json:"userId"`
	Provider      string          `json:"provider"`
	KeyID         string          `json:"keyId,omitempty"`
	ClientSecret  string          `json:"clientSecret,omitempty"`
}

// InitiatePayment opens a provider order for a pending fee transaction, resolved
// either directly or as the registration's pending transaction.
func (s *Service) InitiatePayment(ctx context.Context, in InitiatePaymentInput) (*PaymentOrder, error) {
	if in.RegistrationID == 0 && in.TransactionID == 0 {
		return nil, invalid("registrationId or transactionId is required")
	}

	var (
		tx  *billing.Transaction
		reg *conference.Registration
		err error
	)

	if in.TransactionID != 0 {
		tx, err = s.findTransaction(ctx, "id = ?", in.TransactionID)
		if err != nil {
			return nil, err
		}
		if tx.PaymentStatus == conference.PaymentCompleted {
			return nil, errAlreadyPaid
		}
		reg, err = s.GetRegistration(ctx, tx.RegistrationID)
		if err != nil {
			return nil, err
		}
		if reg.PaymentStatus == conference.PaymentCompleted {
			return nil, errAlreadyPaid
		}
	} else {
		reg, err = s.GetRegistration(ctx, in.RegistrationID)
		if err != nil {
			return nil, err
		}
		if reg.PaymentStatus == conference.PaymentCompleted {
			return nil, errAlreadyPaid
		}
		tx, err = s.findTransaction(ctx, "registration_id = ? AND payment_status = ?", reg.ID, conference.PaymentPending)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return nil, &Error{Kind: KindNotFound, Message: "No pending transaction found for this registration"}
			}
			return nil, err
		}
	}

	if s.gateway == nil {
		return nil, upstream("Payment provider not configured", payment.ErrNotConfigured)
	}

	order, err := s.gateway.CreateOrder(ctx, tx.Amount, tx.Currency, fmt.Sprintf("rcpt_%d", tx.ID), map[string]string{
		"transactionId":    fmt.Sprint(tx.ID),
		"registrationId":   fmt.Sprint(reg.ID),
		"registrationCode": reg.Code,
	})
	if err != nil {
		return nil, upstream("Failed to create payment order", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&billing.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(map[string]interface{}{
			"provider_order_id": order.ID,
			"provider":          s.gateway.Name(),
		}).Error; err != nil {
		return nil, internal("Failed to save transaction", err)
	}

	s.log.Info().Uint("transaction_id", tx.ID).Str("order_id", order.ID).
		Str("provider", s.gateway.Name()).Msg("payment order created")

	currency := order.Currency
	if currency == "" {
		currency = tx.Currency
	}
	return &PaymentOrder{
		OrderID:       order.ID,
		Amount:        tx.Amount,
		Currency:      strings.ToUpper(currency),
		TransactionID: tx.ID,
		UserID:        reg.ID,
		Provider:      s.gateway.Name(),
		KeyID:         order.KeyID,
		ClientSecret:  order.ClientSecret,
	}, nil
}

// PaymentCallback is a provider notification about one payment.
type PaymentCallback struct {
	OrderID   string
	PaymentID string
	Status    string
	// Signature over (OrderID, PaymentID); checked only when present.
	Signature string
	Raw       []byte
}

type PaymentOutcome struct {
	TransactionID uint                     `json:"transactionId"`
	PaymentID     string                   `json:"paymentId"`
	OrderID       string                   `json:"orderId"`
	Status        conference.PaymentStatus `json:"status"`
	ReceiptURL    string                   `json:"receiptUrl,omitempty"`
}

// ConfirmPayment records a provider callback. A completed payment updates the
// transaction and its registration together; a failed one touches the
// transaction only. Repeated callbacks re-apply the same update.
func (s *Service) ConfirmPayment(ctx context.Context, cb PaymentCallback) (*PaymentOutcome, error) {
	cb.OrderID = strings.TrimSpace(cb.OrderID)
	cb.PaymentID = strings.TrimSpace(cb.PaymentID)
	if cb.OrderID == "" {
		return nil, invalid("Missing required field: order_id")
	}

	status := payment.NormalizeStatus(cb.Status)

	if cb.Signature != "" {
		if s.gateway == nil || !s.gateway.VerifySignature(cb.OrderID, cb.PaymentID, cb.Signature) {
			s.log.Warn().Str("order_id", cb.OrderID).Str("payment_id", cb.PaymentID).Msg("payment signature mismatch")
			return nil, errInvalidSignature
		}
	}

	tx, err := s.findTransaction(ctx, "provider_order_id = ?", cb.OrderID)
	if err != nil {
		return nil, err
	}

	// a completed payment is never downgraded by a later callback
	if status != conference.PaymentCompleted && tx.PaymentStatus == conference.PaymentCompleted {
		s.log.Warn().Uint("transaction_id", tx.ID).Str("order_id", cb.OrderID).
			Str("payment_id", cb.PaymentID).Str("status", string(status)).Msg("callback for completed payment ignored")
		return &PaymentOutcome{
			TransactionID: tx.ID,
			PaymentID:     deref(tx.ProviderPaymentID),
			OrderID:       cb.OrderID,
			Status:        conference.PaymentCompleted,
			ReceiptURL:    deref(tx.ReceiptURL),
		}, nil
	}

	raw := cb.Raw
	if !json.Valid(raw) {
		raw, _ = json.Marshal(map[string]string{
			"order_id": cb.OrderID,
			"id":       cb.PaymentID,
			"status":   cb.Status,
		})
	}

	now := s.now()
	txUpdates := map[string]interface{}{
		"payment_status":      status,
		"provider_payment_id": cb.PaymentID,
		"provider_response":   datatypes.JSON(raw),
	}
	if cb.Signature != "" {
		txUpdates["provider_signature"] = cb.Signature
	}

	out := &PaymentOutcome{
		TransactionID: tx.ID,
		PaymentID:     cb.PaymentID,
		OrderID:       cb.OrderID,
		Status:        status,
	}

	if status == conference.PaymentCompleted {
		receipt := s.receiptURL(tx.ID)
		txUpdates["receipt_url"] = receipt
		txUpdates["payment_date"] = now
		out.ReceiptURL = receipt

		err = s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			if err := db.Model(&billing.Transaction{}).Where("id = ?", tx.ID).Updates(txUpdates).Error; err != nil {
				return err
			}
			return db.Model(&conference.Registration{}).
				Where("id = ?", tx.RegistrationID).
				Updates(map[string]interface{}{
					"payment_status": conference.PaymentCompleted,
					"payment_date":   now,
					"payment_amount": tx.Amount,
					"receipt_url":    receipt,
					"transaction_id": tx.ID,
				}).Error
		})
	} else {
		err = s.db.WithContext(ctx).Model(&billing.Transaction{}).Where("id = ?", tx.ID).Updates(txUpdates).Error
	}
	if err != nil {
		return nil, internal("Failed to record payment", err)
	}

	s.log.Info().Uint("transaction_id", tx.ID).Str("order_id", cb.OrderID).
		Str("payment_id", cb.PaymentID).Str("status", string(status)).Msg("payment callback applied")

	if status == conference.PaymentCompleted {
		s.sendPaymentConfirmation(ctx, tx, cb.PaymentID, out.ReceiptURL)
	}
	return out, nil
}

func (s *Service) sendPaymentConfirmation(ctx context.Context, tx *billing.Transaction, paymentID, receiptURL string) {
	if s.dedupe != nil && paymentID != "" {
		first, err := s.dedupe.FirstSeen(ctx, "payment-confirmation:"+paymentID)
		if err != nil {
			s.log.Warn().Err(err).Str("payment_id", paymentID).Msg("dedupe check failed, sending anyway")
		} else if !first {
			s.log.Info().Str("payment_id", paymentID).Msg("payment confirmation already sent")
			return
		}
	}

	var reg conference.Registration
	if err := s.db.WithContext(ctx).Where("id = ?", tx.RegistrationID).First(&reg).Error; err != nil {
		s.releaseConfirmation(ctx, paymentID)
		s.bestEffort("payment_confirmation", "", fmt.Errorf("load registration %d: %w", tx.RegistrationID, err))
		return
	}

	err := s.notifier.PaymentConfirmation(ctx, mail.PaymentMail{
		Name:       reg.FullName,
		Email:      reg.Email,
		Amount:     tx.Amount.StringFixed(2),
		Currency:   tx.Currency,
		PaymentID:  paymentID,
		ReceiptURL: receiptURL,
	})
	if err != nil {
		s.releaseConfirmation(ctx, paymentID)
	}
	s.bestEffort("payment_confirmation", reg.Email, err)
}

// releaseConfirmation forgets an unsent confirmation so a provider retry sends it.
func (s *Service) releaseConfirmation(ctx context.Context, paymentID string) {
	if s.dedupe == nil || paymentID == "" {
		return
	}
	if err := s.dedupe.Forget(ctx, "payment-confirmation:"+paymentID); err != nil {
		s.log.Warn().Err(err).Str("payment_id", paymentID).Msg("dedupe key not released")
	}
}
