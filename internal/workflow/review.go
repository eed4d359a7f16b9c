package workflow

import (
	"context"
	"strings"

	"conference-app/internal/domain/conference"
	"conference-app/internal/infra/mail"
)

type ReviewResult struct {
	ID               uint                      `json:"id"`
	Status           conference.AbstractStatus `json:"status"`
	RejectionComment string                    `json:"rejectionComment"`
}

// UpdateAbstractStatus applies an admin review decision. The comment is stored
// whatever the status, and may be empty for every status.
func (s *Service) UpdateAbstractStatus(ctx context.Context, id uint, status, comment string) (*ReviewResult, error) {
	target := conference.AbstractStatus(strings.TrimSpace(status))
	if !target.Valid() {
		return nil, errInvalidStatus
	}

	abs, err := s.GetAbstract(ctx, id)
	if err != nil {
		return nil, err
	}

	comment = strings.TrimSpace(comment)
	if err := s.db.WithContext(ctx).
		Model(&conference.Abstract{}).
		Where("id = ?", abs.ID).
		Updates(map[string]interface{}{
			"status":            target,
			"rejection_comment": comment,
		}).Error; err != nil {
		return nil, internal("Failed to update abstract", err)
	}

	s.log.Info().Uint("abstract_id", abs.ID).Str("from", string(abs.Status)).
		Str("to", string(target)).Msg("abstract reviewed")

	s.bestEffort("abstract_reviewed", abs.Email, s.notifier.AbstractReviewed(ctx, mail.ReviewMail{
		Name:    abs.Name,
		Email:   abs.Email,
		Code:    abs.Code,
		Title:   abs.Title,
		Status:  target.Label(),
		Comment: comment,
	}))

	return &ReviewResult{ID: abs.ID, Status: target, RejectionComment: comment}, nil
}

// ResubmitAbstract puts an abstract back into review with a new document.
// The previous reviewer comment is cleared. Any prior status is
// accepted.
func (s *Service) ResubmitAbstract(ctx context.Context, id uint, fileURL string) (*conference.Abstract, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return nil, invalid("Missing required field: fileUrl")
	}

	abs, err := s.GetAbstract(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := abs.Status

	if err := s.db.WithContext(ctx).
		Model(&conference.Abstract{}).
		Where("id = ?", abs.ID).
		Updates(map[string]interface{}{
			"status":            conference.AbstractInReview,
			"file_url":          fileURL,
			"rejection_comment": "",
		}).Error; err != nil {
		return nil, internal("Failed to update abstract", err)
	}
	abs.Status = conference.AbstractInReview
	abs.FileURL = fileURL
	abs.RejectionComment = ""

	s.log.Info().Uint("abstract_id", abs.ID).Str("from", string(previous)).Msg("abstract resubmitted")

	s.bestEffort("abstract_submitted", abs.Email, s.notifier.AbstractSubmitted(ctx, mail.AbstractMail{
		Name:  abs.Name,
		Email: abs.Email,
		Code:  abs.Code,
		Title: abs.Title,
	}))

	return abs, nil
}
