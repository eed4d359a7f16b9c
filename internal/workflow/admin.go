package workflow

import (
	"context"
	"strings"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RegistrationFilter struct {
	RegistrationStatus string
	PaymentStatus      string
}

// ListRegistrations returns the most recent registrations, capped at listLimit.
func (s *Service) ListRegistrations(ctx context.Context, f RegistrationFilter) ([]conference.Registration, error) {
	q := s.db.WithContext(ctx).Model(&conference.Registration{})
	if v := strings.TrimSpace(f.RegistrationStatus); v != "" {
		if !conference.RegistrationStatus(v).Valid() {
			return nil, errInvalidStatus
		}
		q = q.Where("registration_status = ?", v)
	}
	if v := strings.TrimSpace(f.PaymentStatus); v != "" {
		if !conference.PaymentStatus(v).Valid() {
			return nil, errInvalidStatus
		}
		q = q.Where("payment_status = ?", v)
	}

	var out []conference.Registration
	if err := q.Preload("Abstracts", orderedAbstracts).
		Order("created_at DESC, id DESC").
		Limit(listLimit).
		Find(&out).Error; err != nil {
		return nil, internal("Failed to load registrations", err)
	}
	return out, nil
}

// AllRegistrations returns every registration, oldest first, for exports.
func (s *Service) AllRegistrations(ctx context.Context) ([]conference.Registration, error) {
	var out []conference.Registration
	if err := s.db.WithContext(ctx).
		Preload("Abstracts", orderedAbstracts).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, internal("Failed to load registrations", err)
	}
	return out, nil
}

// ListAbstracts returns the most recent abstracts, capped at listLimit.
func (s *Service) ListAbstracts(ctx context.Context, status string) ([]conference.Abstract, error) {
	q := s.db.WithContext(ctx).Model(&conference.Abstract{})
	if status = strings.TrimSpace(status); status != "" {
		if !conference.AbstractStatus(status).Valid() {
			return nil, errInvalidStatus
		}
		q = q.Where("status = ?", status)
	}

	var out []conference.Abstract
	if err := q.Order("created_at DESC, id DESC").Limit(listLimit).Find(&out).Error; err != nil {
		return nil, internal("Failed to load abstracts", err)
	}
	return out, nil
}

func (s *Service) UpdateRegistrationStatus(ctx context.Context, id uint, status string) (*conference.Registration, error) {
	target := conference.RegistrationStatus(strings.TrimSpace(status))
	if !target.Valid() {
		return nil, errInvalidStatus
	}

	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Model(&conference.Registration{}).
		Where("id = ?", reg.ID).
		Update("registration_status", target).Error; err != nil {
		return nil, internal("Failed to update registration", err)
	}
	reg.RegistrationStatus = target

	s.log.Info().Uint("registration_id", reg.ID).Str("status", string(target)).Msg("registration status updated")
	return reg, nil
}

// DeleteRegistration removes a registration and its transactions; its abstracts
// stay and become unlinked.
func (s *Service) DeleteRegistration(ctx context.Context, id uint) error {
	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Model(&conference.Abstract{}).
			Where("registration_id = ?", reg.ID).
			Updates(map[string]interface{}{
				"registration_id":        nil,
				"registration_completed": false,
			}).Error; err != nil {
			return err
		}
		if err := db.Where("registration_id = ?", reg.ID).Delete(&billing.Transaction{}).Error; err != nil {
			return err
		}
		return db.Delete(&conference.Registration{}, reg.ID).Error
	})
	if err != nil {
		return internal("Failed to delete registration", err)
	}

	s.log.Info().Uint("registration_id", reg.ID).Str("code", reg.Code).Msg("registration deleted")
	return nil
}

func (s *Service) DeleteAbstract(ctx context.Context, id uint) error {
	abs, err := s.GetAbstract(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&conference.Abstract{}, abs.ID).Error; err != nil {
		return internal("Failed to delete abstract", err)
	}
	s.log.Info().Uint("abstract_id", abs.ID).Str("code", abs.Code).Msg("abstract deleted")
	return nil
}

type Stats struct {
	Registrations     int64            `json:"registrations"`
	Abstracts         int64            `json:"abstracts"`
	ByCategory        map[string]int64 `json:"byCategory"`
	ByPaymentStatus   map[string]int64 `json:"byPaymentStatus"`
	ByAbstractStatus  map[string]int64 `json:"byAbstractStatus"`
	CollectedAmount   decimal.Decimal  `json:"collectedAmount"`
	CompletedPayments int64            `json:"completedPayments"`
}

type groupCount struct {
	Name  string
	Count int64
}

func (s *Service) countBy(ctx context.Context, model any, column string) (map[string]int64, int64, error) {
	var rows []groupCount
	err := s.db.WithContext(ctx).Model(model).
		Select(column + " AS name, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		out[r.Name] = r.Count
		total += r.Count
	}
	return out, total, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error

	if st.ByCategory, st.Registrations, err = s.countBy(ctx, &conference.Registration{}, "registration_type"); err != nil {
		return nil, internal("Failed to compute stats", err)
	}
	if st.ByPaymentStatus, _, err = s.countBy(ctx, &conference.Registration{}, "payment_status"); err != nil {
		return nil, internal("Failed to compute stats", err)
	}
	if st.ByAbstractStatus, st.Abstracts, err = s.countBy(ctx, &conference.Abstract{}, "status"); err != nil {
		return nil, internal("Failed to compute stats", err)
	}

	var completed []billing.Transaction
	if err := s.db.WithContext(ctx).
		Select("amount").
		Where("payment_status = ?", conference.PaymentCompleted).
		Find(&completed).Error; err != nil {
		return nil, internal("Failed to compute stats", err)
	}
	st.CollectedAmount = decimal.Zero
	for _, t := range completed {
		st.CollectedAmount = st.CollectedAmount.Add(t.Amount)
	}
	st.CompletedPayments = int64(len(completed))

	return &st, nil
}
