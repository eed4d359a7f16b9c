package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"
	"conference-app/internal/infra/mail"
	"conference-app/internal/infra/payment"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

type RegistrationInput struct {
	Salutation  string `json:"salutation" validate:"required,max=20"`
	FullName    string `json:"fullName" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=32"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`

	Affiliation string `json:"affiliation" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	Institute   string `json:"institute" validate:"required"`

	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required,max=16"`

	RegistrationType string `json:"registrationType" validate:"required"`
	Accommodation    bool   `json:"accommodation"`
}

func (in *RegistrationInput) trim() {
	for _, f := range []*string{
		&in.Salutation, &in.FullName, &in.Email, &in.Phone, &in.DateOfBirth,
		&in.Affiliation, &in.Designation, &in.Institute,
		&in.Address, &in.City, &in.State, &in.Country, &in.PostalCode,
		&in.RegistrationType,
	} {
		*f = strings.TrimSpace(*f)
	}
}

type RegistrationResult struct {
	ID               uint                        `json:"id"`
	Code             string                      `json:"code"`
	Name             string                      `json:"name"`
	Email            string                      `json:"email"`
	RegistrationType conference.RegistrationType `json:"registrationType"`
	PaymentStatus    conference.PaymentStatus    `json:"paymentStatus"`
	PaymentRequired  bool                        `json:"paymentRequired"`
	PaymentAmount    decimal.Decimal             `json:"paymentAmount"`
	TransactionID    *uint                       `json:"transactionId,omitempty"`
	LinkedAbstracts  int64                       `json:"linkedAbstracts"`
}

// SubmitRegistration creates a registration, its scan-code image and, for paid
// categories, a pending fee transaction. Free categories are marked paid at once.
func (s *Service) SubmitRegistration(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	in.trim()
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	category := conference.RegistrationType(in.RegistrationType)
	if !category.Valid() {
		return nil, invalid("Invalid registration type")
	}
	dob, err := time.Parse(dateLayout, in.DateOfBirth)
	if err != nil {
		return nil, invalid("Invalid dateOfBirth, expected YYYY-MM-DD")
	}

	db := s.db.WithContext(ctx)

	taken, err := s.emailRegistered(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("Email already registered")
	}

	reg := conference.Registration{
		Salutation:       in.Salutation,
		FullName:         in.FullName,
		Email:            in.Email,
		Phone:            in.Phone,
		DateOfBirth:      dob,
		Affiliation:      in.Affiliation,
		Designation:      in.Designation,
		Institute:        in.Institute,
		Address:          in.Address,
		City:             in.City,
		State:            in.State,
		Country:          in.Country,
		PostalCode:       in.PostalCode,
		RegistrationType: category,
		Accommodation:    in.Accommodation,
	}

	err = createWithCode(db, &reg, &reg.Code, func() error {
		if taken, _ := s.emailRegistered(ctx, in.Email); taken {
			return conflict("Email already registered")
		}
		return nil
	})
	if err != nil {
		var we *Error
		if errors.As(err, &we) {
			return nil, we
		}
		return nil, internal("Failed to create registration", err)
	}

	qr, err := s.files.ScanCodeImage(ctx, reg.Code)
	if err != nil {
		return nil, upstream("Failed to generate registration code image", err)
	}
	reg.QRCodeURL = qr
	if err := db.Model(&conference.Registration{}).Where("id = ?", reg.ID).Update("qr_code_url", qr).Error; err != nil {
		return nil, internal("Failed to save registration", err)
	}

	fee := payment.FeeFor(category)
	res := &RegistrationResult{
		ID:               reg.ID,
		Code:             reg.Code,
		Name:             reg.FullName,
		Email:            reg.Email,
		RegistrationType: category,
		PaymentAmount:    fee,
	}

	if fee.IsPositive() {
		tx, err := s.createFeeTransaction(ctx, &reg, fee)
		if err != nil {
			return nil, err
		}
		res.PaymentStatus = conference.PaymentPending
		res.PaymentRequired = true
		res.TransactionID = &tx.ID
	} else {
		if err := db.Model(&conference.Registration{}).
			Where("id = ?", reg.ID).
			Updates(map[string]interface{}{
				"payment_status": conference.PaymentCompleted,
				"payment_amount": decimal.Zero,
			}).Error; err != nil {
			return nil, internal("Failed to save registration", err)
		}
		res.PaymentStatus = conference.PaymentCompleted
	}

	linked, err := s.linkPendingAbstracts(ctx, &reg)
	if err != nil {
		return nil, err
	}
	res.LinkedAbstracts = linked

	s.log.Info().Uint("registration_id", reg.ID).Str("code", reg.Code).
		Str("category", string(category)).Str("fee", fee.StringFixed(2)).Msg("registration created")

	m := mail.RegistrationMail{
		Name:            reg.FullName,
		Email:           reg.Email,
		Code:            reg.Code,
		Category:        string(category),
		PaymentRequired: res.PaymentRequired,
		Amount:          fee.StringFixed(2),
		Currency:        s.currency,
		QRCodeURL:       qr,
	}
	if res.PaymentRequired {
		m.PaymentLink = s.paymentLink(reg.ID)
	}
	s.bestEffort("registration_confirmation", reg.Email, s.notifier.RegistrationConfirmation(ctx, m))

	return res, nil
}

func (s *Service) emailRegistered(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&conference.Registration{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, internal("Failed to check email", err)
	}
	return n > 0, nil
}

func (s *Service) createFeeTransaction(ctx context.Context, reg *conference.Registration, fee decimal.Decimal) (*billing.Transaction, error) {
	meta, _ := json.Marshal(map[string]string{
		"registrationCode": reg.Code,
		"registrationType": string(reg.RegistrationType),
	})

	tx := billing.Transaction{
		RegistrationID: reg.ID,
		Amount:         fee,
		Currency:       s.currency,
		PaymentStatus:  conference.PaymentPending,
		Description:    "Registration fee - " + reg.Code,
		Metadata:       datatypes.JSON(meta),
	}
	db := s.db.WithContext(ctx)
	if err := db.Create(&tx).Error; err != nil {
		return nil, internal("Failed to create transaction", err)
	}

	if err := db.Model(&conference.Registration{}).
		Where("id = ?", reg.ID).
		Updates(map[string]interface{}{
			"transaction_id": tx.ID,
			"payment_amount": fee,
		}).Error; err != nil {
		return nil, internal("Failed to save registration", err)
	}
	return &tx, nil
}

// linkPendingAbstracts attaches abstracts submitted before this registration
// existed (same e-mail, not yet linked).
func (s *Service) linkPendingAbstracts(ctx context.Context, reg *conference.Registration) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&conference.Abstract{}).
		Where("email = ? AND registration_id IS NULL", reg.Email).
		Updates(map[string]interface{}{
			"registration_id":        reg.ID,
			"registration_completed": true,
		})
	if res.Error != nil {
		return 0, internal("Failed to link abstracts", res.Error)
	}
	return res.RowsAffected, nil
}
