package mail

import (
	"context"
	"fmt"
)

type RegistrationMail struct {
	Name            string
	Email           string
	Code            string
	Category        string
	PaymentRequired bool
	Amount          string
	Currency        string
	PaymentLink     string
	QRCodeURL       string
}

type AbstractMail struct {
	Name  string
	Email string
	Code  string
	Title string
}

type ReviewMail struct {
	Name    string
	Email   string
	Code    string
	Title   string
	Status  string
	Comment string
}

type PaymentMail struct {
	Name       string
	Email      string
	Amount     string
	Currency   string
	PaymentID  string
	ReceiptURL string
}

type ReminderMail struct {
	Name        string
	Email       string
	Code        string
	Amount      string
	Currency    string
	PaymentLink string
}

// Notifier renders the transactional templates and hands them to a Sender.
type Notifier struct {
	sender     Sender
	conference string
}

func NewNotifier(sender Sender, conference string) *Notifier {
	if conference == "" {
		conference = "Conference"
	}
	return &Notifier{sender: sender, conference: conference}
}

func (n *Notifier) send(ctx context.Context, tmpl, to, subject string, data any) error {
	html, err := render(tmpl, n.conference, subject, data)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, to, subject, html)
}

func (n *Notifier) RegistrationConfirmation(ctx context.Context, m RegistrationMail) error {
	subject := fmt.Sprintf("Registration received - %s", m.Code)
	return n.send(ctx, "registration", m.Email, subject, m)
}

func (n *Notifier) AbstractSubmitted(ctx context.Context, m AbstractMail) error {
	subject := fmt.Sprintf("Abstract submitted - %s", m.Code)
	return n.send(ctx, "abstract_submitted", m.Email, subject, m)
}

func (n *Notifier) AbstractReviewed(ctx context.Context, m ReviewMail) error {
	subject := fmt.Sprintf("Abstract %s: %s", m.Code, m.Status)
	return n.send(ctx, "abstract_reviewed", m.Email, subject, m)
}

func (n *Notifier) PaymentConfirmation(ctx context.Context, m PaymentMail) error {
	return n.send(ctx, "payment_confirmation", m.Email, "Payment received", m)
}

func (n *Notifier) PaymentReminder(ctx context.Context, m ReminderMail) error {
	subject := fmt.Sprintf("Payment pending for registration %s", m.Code)
	return n.send(ctx, "payment_reminder", m.Email, subject, m)
}
