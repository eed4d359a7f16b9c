package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"conference-app/internal/domain/conference"
	"conference-app/internal/infra/mail"
	"conference-app/internal/infra/storage"

	"github.com/google/uuid"
)

type AbstractInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Affiliation string `json:"affiliation" validate:"required"`
	Designation string `json:"designation" validate:"required"`

	Title            string `json:"title" validate:"required,max=500"`
	Subject          string `json:"subject" validate:"required"`
	ArticleType      string `json:"articleType" validate:"required"`
	PresentationType string `json:"presentationType" validate:"required"`

	// CoAuthors is the raw JSON array sent in the multipart form.
	CoAuthors string `json:"coAuthors"`
}

func (in *AbstractInput) trim() {
	for _, f := range []*string{
		&in.Name, &in.Email, &in.Affiliation, &in.Designation,
		&in.Title, &in.Subject, &in.ArticleType, &in.PresentationType,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Upload is one file taken from a multipart request.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

type AbstractResult struct {
	ID                    uint   `json:"id"`
	Code                  string `json:"code"`
	Title                 string `json:"title"`
	Email                 string `json:"email"`
	RegistrationCompleted bool   `json:"registrationCompleted"`
}

// parseCoAuthors decodes the co-author list. Malformed JSON yields an empty list.
func parseCoAuthors(raw string) []conference.CoAuthor {
	out := []conference.CoAuthor{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	var parsed []conference.CoAuthor
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return out
	}
	for _, c := range parsed {
		c.Name = strings.TrimSpace(c.Name)
		c.Email = strings.TrimSpace(c.Email)
		c.Affiliation = strings.TrimSpace(c.Affiliation)
		if c.Name == "" && c.Email == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Service) checkUpload(file *Upload) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", invalid("Abstract file is required")
	}
	if int64(len(file.Data)) > s.maxUpload {
		return "", invalid("File exceeds the %d MB limit", s.maxUpload>>20)
	}
	mimeType, err := storage.DetectDocumentType(file.Data, file.ContentType)
	if err != nil {
		return "", invalid("Invalid file type: %s", err.Error())
	}
	return mimeType, nil
}

// SubmitAbstract stores a new abstract and its document, then links it to an
// existing registration with the same e-mail.
//
// The record is persisted before the upload: a failed upload leaves an abstract
// without a file behind.
func (s *Service) SubmitAbstract(ctx context.Context, in AbstractInput, file *Upload) (*AbstractResult, error) {
	in.trim()
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	articleType := conference.ArticleType(in.ArticleType)
	if !articleType.Valid() {
		return nil, invalid("Invalid article type")
	}
	presentationType := conference.PresentationType(in.PresentationType)
	if !presentationType.Valid() {
		return nil, invalid("Invalid presentation type")
	}
	mimeType, err := s.checkUpload(file)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	abs := conference.Abstract{
		Name:             in.Name,
		Email:            in.Email,
		Affiliation:      in.Affiliation,
		Designation:      in.Designation,
		CoAuthors:        parseCoAuthors(in.CoAuthors),
		Title:            in.Title,
		Subject:          in.Subject,
		ArticleType:      articleType,
		PresentationType: presentationType,
		Status:           conference.AbstractInReview,
	}
	if err := createWithCode(db, &abs, &abs.Code, nil); err != nil {
		return nil, internal("Failed to create abstract", err)
	}

	stored, err := s.files.Store(ctx, file.Data, mimeType, "abstracts", abs.Code+storage.DocumentExt(mimeType))
	if err != nil {
		return nil, upstream("Failed to upload abstract file", err)
	}
	abs.FileURL = stored.URL
	if err := db.Model(&conference.Abstract{}).Where("id = ?", abs.ID).Update("file_url", stored.URL).Error; err != nil {
		return nil, internal("Failed to save abstract", err)
	}

	qr, err := s.files.ScanCodeImage(ctx, abs.Code)
	if err != nil {
		return nil, upstream("Failed to generate abstract code image", err)
	}
	abs.QRCodeURL = qr
	if err := db.Model(&conference.Abstract{}).Where("id = ?", abs.ID).Update("qr_code_url", qr).Error; err != nil {
		return nil, internal("Failed to save abstract", err)
	}

	var reg conference.Registration
	err = db.Where("email = ?", abs.Email).First(&reg).Error
	switch {
	case err == nil:
		if err := db.Model(&conference.Abstract{}).
			Where("id = ?", abs.ID).
			Updates(map[string]interface{}{
				"registration_id":        reg.ID,
				"registration_completed": true,
			}).Error; err != nil {
			return nil, internal("Failed to link abstract", err)
		}
		abs.RegistrationID = &reg.ID
		abs.RegistrationCompleted = true
	case !isNotFound(err):
		return nil, internal("Failed to look up registration", err)
	}

	s.log.Info().Uint("abstract_id", abs.ID).Str("code", abs.Code).
		Bool("registration_linked", abs.RegistrationCompleted).Msg("abstract submitted")

	s.bestEffort("abstract_submitted", abs.Email, s.notifier.AbstractSubmitted(ctx, mail.AbstractMail{
		Name:  abs.Name,
		Email: abs.Email,
		Code:  abs.Code,
		Title: abs.Title,
	}))

	return &AbstractResult{
		ID:                    abs.ID,
		Code:                  abs.Code,
		Title:                 abs.Title,
		Email:                 abs.Email,
		RegistrationCompleted: abs.RegistrationCompleted,
	}, nil
}

// UploadAbstractFile stores a replacement document for an abstract and returns
// its URL; the abstract itself is not modified until ResubmitAbstract.
func (s *Service) UploadAbstractFile(ctx context.Context, id uint, file *Upload) (string, error) {
	abs, err := s.GetAbstract(ctx, id)
	if err != nil {
		return "", err
	}
	mimeType, err := s.checkUpload(file)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s%s", abs.Code, uuid.NewString()[:8], storage.DocumentExt(mimeType))
	stored, err := s.files.Store(ctx, file.Data, mimeType, "abstracts", name)
	if err != nil {
		return "", upstream("Failed to upload abstract file", err)
	}
	return stored.URL, nil
}
