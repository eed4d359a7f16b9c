package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"

	"github.com/shopspring/decimal"
)

func (s *Service) GetTransaction(ctx context.Context, id uint) (*billing.Transaction, error) {
	return s.findTransaction(ctx, "id = ?", id)
}

// ListTransactionsByUser returns the transactions of a registration, newest first,
// optionally filtered by payment status.
func (s *Service) ListTransactionsByUser(ctx context.Context, registrationID uint, status string) ([]billing.Transaction, error) {
	q := s.db.WithContext(ctx).Where("registration_id = ?", registrationID)
	if status = strings.TrimSpace(status); status != "" {
		ps := conference.PaymentStatus(status)
		if !ps.Valid() {
			return nil, errInvalidStatus
		}
		q = q.Where("payment_status = ?", ps)
	}

	var out []billing.Transaction
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, internal("Failed to load transactions", err)
	}
	return out, nil
}

type Receipt struct {
	ReceiptNumber    string          `json:"receiptNumber"`
	TransactionID    uint            `json:"transactionId"`
	RegistrationCode string          `json:"registrationCode"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	RegistrationType string          `json:"registrationType"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PaymentID        string          `json:"paymentId"`
	OrderID          string          `json:"orderId"`
	PaymentDate      *time.Time      `json:"paymentDate"`
	Description      string          `json:"description"`
}

// GetReceipt returns the receipt of a completed transaction.
func (s *Service) GetReceipt(ctx context.Context, id uint) (*Receipt, error) {
	tx, err := s.findTransaction(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if tx.PaymentStatus != conference.PaymentCompleted {
		return nil, notFound("Receipt")
	}

	var reg conference.Registration
	if err := s.db.WithContext(ctx).Where("id = ?", tx.RegistrationID).First(&reg).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Registration")
		}
		return nil, internal("Failed to load registration", err)
	}

	return &Receipt{
		ReceiptNumber:    fmt.Sprintf("RCPT-%s-%06d", reg.Code, tx.ID),
		TransactionID:    tx.ID,
		RegistrationCode: reg.Code,
		Name:             reg.FullName,
		Email:            reg.Email,
		RegistrationType: string(reg.RegistrationType),
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		PaymentID:        deref(tx.ProviderPaymentID),
		OrderID:          deref(tx.ProviderOrderID),
		PaymentDate:      tx.PaymentDate,
		Description:      tx.Description,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
