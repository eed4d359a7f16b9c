package workflow

import (
	"context"
	"time"

	"conference-app/internal/domain/conference"
	"conference-app/internal/infra/mail"
)

// reminderBatch bounds how many reminders one sweep sends.
const reminderBatch = 200

// SendPaymentReminder mails the payment link to an unpaid registrant.
func (s *Service) SendPaymentReminder(ctx context.Context, id uint) error {
	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return err
	}
	return s.remind(ctx, reg)
}

func (s *Service) remind(ctx context.Context, reg *conference.Registration) error {
	if reg.PaymentStatus == conference.PaymentCompleted {
		return errAlreadyPaid
	}
	if reg.RegistrationStatus == conference.RegistrationCancelled {
		return invalid("Registration is cancelled")
	}

	err := s.notifier.PaymentReminder(ctx, mail.ReminderMail{
		Name:        reg.FullName,
		Email:       reg.Email,
		Code:        reg.Code,
		Amount:      reg.PaymentAmount.StringFixed(2),
		Currency:    s.currency,
		PaymentLink: s.paymentLink(reg.ID),
	})
	if err != nil {
		return upstream("Failed to send reminder", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).
		Model(&conference.Registration{}).
		Where("id = ?", reg.ID).
		Update("last_reminder_at", now).Error; err != nil {
		return internal("Failed to save reminder", err)
	}
	reg.LastReminderAt = &now

	s.log.Info().Uint("registration_id", reg.ID).Str("email", reg.Email).Msg("payment reminder sent")
	return nil
}

// SendDueReminders reminds every unpaid, active registration that was created
// and last reminded more than olderThan ago. It returns the number sent.
func (s *Service) SendDueReminders(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)

	var due []conference.Registration
	err := s.db.WithContext(ctx).
		Where("payment_status IN ?", []conference.PaymentStatus{conference.PaymentPending, conference.PaymentFailed}).
		Where("registration_status <> ?", conference.RegistrationCancelled).
		Where("payment_amount > 0").
		Where("created_at < ?", cutoff).
		Where(s.db.Where("last_reminder_at IS NULL").Or("last_reminder_at < ?", cutoff)).
		Order("id ASC").
		Limit(reminderBatch).
		Find(&due).Error
	if err != nil {
		return 0, internal("Failed to load registrations", err)
	}

	sent := 0
	for i := range due {
		if ctx.Err() != nil {
			break
		}
		if err := s.remind(ctx, &due[i]); err != nil {
			s.log.Warn().Err(err).Uint("registration_id", due[i].ID).Msg("payment reminder skipped")
			continue
		}
		sent++
	}

	s.log.Info().Int("due", len(due)).Int("sent", sent).Msg("payment reminder sweep done")
	return sent, ctx.Err()
}

