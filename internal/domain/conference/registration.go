package conference

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Registration struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"not null;uniqueIndex:idx_registrations_code" json:"code"`

	Salutation  string    `gorm:"not null" json:"salutation"`
	FullName    string    `gorm:"not null" json:"fullName"`
	Email       string    `gorm:"not null;uniqueIndex:idx_registrations_email" json:"email"`
	Phone       string    `gorm:"not null" json:"phone"`
	DateOfBirth time.Time `gorm:"type:date" json:"dateOfBirth"`

	Affiliation string `gorm:"not null" json:"affiliation"`
	Designation string `gorm:"not null" json:"designation"`
	Institute   string `gorm:"not null" json:"institute"`

	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	State      string `gorm:"not null" json:"state"`
	Country    string `gorm:"not null" json:"country"`
	PostalCode string `gorm:"not null" json:"postalCode"`

	RegistrationType RegistrationType `gorm:"type:varchar(20);not null;index" json:"registrationType"`
	Accommodation    bool             `gorm:"not null;default:false" json:"accommodation"`

	RegistrationStatus RegistrationStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"registrationStatus"`
	PaymentStatus      PaymentStatus      `gorm:"type:varchar(20);not null;default:'Pending';index" json:"paymentStatus"`

	PaymentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paymentAmount"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	ReceiptURL    string          `json:"receiptUrl,omitempty"`
	TransactionID *uint           `gorm:"index" json:"transactionId,omitempty"`

	QRCodeURL      string     `gorm:"column:qr_code_url" json:"qrCodeUrl,omitempty"`
	LastReminderAt *time.Time `json:"lastReminderAt,omitempty"`

	Abstracts []Abstract `gorm:"foreignKey:RegistrationID;constraint:OnDelete:SET NULL" json:"abstracts,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	EnsureCode(&r.Code, NewRegistrationCode)
	return nil
}
