package conference

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CoAuthor entries keep submission order and may repeat.
type CoAuthor struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
}

type Abstract struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"not null;uniqueIndex:idx_abstracts_code" json:"code"`

	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"not null;index" json:"email"`
	Affiliation string `gorm:"not null" json:"affiliation"`
	Designation string `gorm:"not null" json:"designation"`

	CoAuthors datatypes.JSONSlice[CoAuthor] `json:"coAuthors"`

	Title            string           `gorm:"not null" json:"title"`
	Subject          string           `gorm:"not null" json:"subject"`
	ArticleType      ArticleType      `gorm:"type:varchar(32);not null" json:"articleType"`
	PresentationType PresentationType `gorm:"type:varchar(16);not null" json:"presentationType"`

	FileURL   string `gorm:"column:file_url" json:"fileUrl"`
	QRCodeURL string `gorm:"column:qr_code_url" json:"qrCodeUrl,omitempty"`

	Status AbstractStatus `gorm:"type:varchar(16);not null;default:'InReview';index" json:"status"`
	// RejectionComment carries the latest reviewer note whatever the status.
	RejectionComment string `json:"rejectionComment"`

	RegistrationID        *uint         `gorm:"index" json:"registration,omitempty"`
	Registration          *Registration `json:"-"`
	RegistrationCompleted bool          `gorm:"not null;default:false" json:"registrationCompleted"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Abstract) BeforeCreate(tx *gorm.DB) error {
	EnsureCode(&a.Code, NewAbstractCode)
	return nil
}
