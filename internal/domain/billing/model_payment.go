package billing

import (
	"time"

	"conference-app/internal/domain/conference"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const DefaultCurrency = "INR"

func init() {
	// Amounts are JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction is one payment attempt for a registration.
// Only one Pending transaction per registration is expected; nothing enforces it.
type Transaction struct {
	ID             uint                     `gorm:"primaryKey" json:"id"`
	RegistrationID uint                     `gorm:"not null;index" json:"registrationId"`
	Registration   *conference.Registration `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AbstractID     *uint                    `gorm:"index" json:"abstractId,omitempty"`

	Amount        decimal.Decimal          `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string                   `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	PaymentStatus conference.PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"paymentStatus"`

	Provider          string         `gorm:"type:varchar(20)" json:"provider,omitempty"`
	ProviderOrderID   *string        `gorm:"uniqueIndex:idx_transactions_provider_order_id" json:"orderId,omitempty"`
	ProviderPaymentID *string        `json:"paymentId,omitempty"`
	ProviderSignature *string        `json:"-"`
	ProviderResponse  datatypes.JSON `json:"providerResponse,omitempty"`
	ReceiptURL        *string        `json:"receiptUrl,omitempty"`
	PaymentDate       *time.Time     `json:"paymentDate,omitempty"`

	Description string         `json:"description,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
