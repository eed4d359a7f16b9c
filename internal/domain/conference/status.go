package conference

// RegistrationType is the attendee category; it decides the registration fee.
type RegistrationType string

const (
	TypeStudent  RegistrationType = "Student"
	TypeAcademic RegistrationType = "Academic"
	TypeIndustry RegistrationType = "Industry"
	TypeSpeaker  RegistrationType = "Speaker"
	TypeGuest    RegistrationType = "Guest"
)

var RegistrationTypes = []RegistrationType{TypeStudent, TypeAcademic, TypeIndustry, TypeSpeaker, TypeGuest}

func (t RegistrationType) Valid() bool {
	for _, v := range RegistrationTypes {
		if v == t {
			return true
		}
	}
	return false
}

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "Pending"
	RegistrationConfirmed RegistrationStatus = "Confirmed"
	RegistrationCancelled RegistrationStatus = "Cancelled"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationConfirmed, RegistrationCancelled:
		return true
	}
	return false
}

// PaymentStatus is shared by registrations and transactions.
// Transactions never use PaymentRefunded.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type AbstractStatus string

const (
	AbstractInReview  AbstractStatus = "InReview"
	AbstractAccepted  AbstractStatus = "Accepted"
	AbstractRejected  AbstractStatus = "Rejected"
	AbstractRevisions AbstractStatus = "Revisions"
)

var AbstractStatuses = []AbstractStatus{AbstractInReview, AbstractAccepted, AbstractRejected, AbstractRevisions}

func (s AbstractStatus) Valid() bool {
	for _, v := range AbstractStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Label is the user-facing wording used in notifications.
func (s AbstractStatus) Label() string {
	if s == AbstractRevisions {
		return "Revisions Required"
	}
	return string(s)
}

type ArticleType string

const (
	ArticleResearchPaper ArticleType = "Research Paper"
	ArticleReview        ArticleType = "Review Article"
	ArticleCaseStudy     ArticleType = "Case Study"
	ArticlePoster        ArticleType = "Poster"
)

func (t ArticleType) Valid() bool {
	switch t {
	case ArticleResearchPaper, ArticleReview, ArticleCaseStudy, ArticlePoster:
		return true
	}
	return false
}

type PresentationType string

const (
	PresentationOral     PresentationType = "Oral"
	PresentationPoster   PresentationType = "Poster"
	PresentationWorkshop PresentationType = "Workshop"
)

func (t PresentationType) Valid() bool {
	switch t {
	case PresentationOral, PresentationPoster, PresentationWorkshop:
		return true
	}
	return false
}
