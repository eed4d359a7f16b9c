package workflow

import (
	"context"
	"errors"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"

	"gorm.io/gorm"
)

// listLimit caps admin listings; there is no pagination cursor.
const listLimit = 100

// maxCodeAttempts bounds regeneration of a record code after a unique-key clash.
const maxCodeAttempts = 5

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func orderedAbstracts(db *gorm.DB) *gorm.DB {
	return db.Order("abstracts.id ASC")
}

func (s *Service) findRegistration(ctx context.Context, query string, args ...any) (*conference.Registration, error) {
	var reg conference.Registration
	err := s.db.WithContext(ctx).
		Preload("Abstracts", orderedAbstracts).
		Where(query, args...).
		First(&reg).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("Registration")
		}
		return nil, internal("Failed to load registration", err)
	}
	return &reg, nil
}

func (s *Service) findAbstract(ctx context.Context, query string, args ...any) (*conference.Abstract, error) {
	var abs conference.Abstract
	if err := s.db.WithContext(ctx).Where(query, args...).First(&abs).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Abstract")
		}
		return nil, internal("Failed to load abstract", err)
	}
	return &abs, nil
}

func (s *Service) findTransaction(ctx context.Context, query string, args ...any) (*billing.Transaction, error) {
	var tx billing.Transaction
	if err := s.db.WithContext(ctx).Where(query, args...).First(&tx).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("Transaction")
		}
		return nil, internal("Failed to load transaction", err)
	}
	return &tx, nil
}

// createWithCode inserts rec, regenerating its code on a unique-key clash.
// onDuplicate may return an error to stop retrying (e.g. the clash was not on the code).
func createWithCode(db *gorm.DB, rec any, code *string, onDuplicate func() error) error {
	for attempt := 1; ; attempt++ {
		err := db.Create(rec).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxCodeAttempts {
			return err
		}
		if onDuplicate != nil {
			if stop := onDuplicate(); stop != nil {
				return stop
			}
		}
		*code = ""
	}
}

func (s *Service) GetRegistration(ctx context.Context, id uint) (*conference.Registration, error) {
	return s.findRegistration(ctx, "id = ?", id)
}

func (s *Service) GetRegistrationByEmail(ctx context.Context, email string) (*conference.Registration, error) {
	return s.findRegistration(ctx, "email = ?", email)
}

func (s *Service) GetRegistrationByCode(ctx context.Context, code string) (*conference.Registration, error) {
	return s.findRegistration(ctx, "code = ?", code)
}

func (s *Service) GetAbstract(ctx context.Context, id uint) (*conference.Abstract, error) {
	return s.findAbstract(ctx, "id = ?", id)
}

func (s *Service) GetAbstractByCode(ctx context.Context, code string) (*conference.Abstract, error) {
	return s.findAbstract(ctx, "code = ?", code)
}

// ListAbstractsByEmail returns every abstract submitted from email, oldest first.
func (s *Service) ListAbstractsByEmail(ctx context.Context, email string) ([]conference.Abstract, error) {
	var out []conference.Abstract
	if err := s.db.WithContext(ctx).Where("email = ?", email).Order("id ASC").Find(&out).Error; err != nil {
		return nil, internal("Failed to load abstracts", err)
	}
	return out, nil
}
