package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #1d4e89;">{{.Conference}}</h2>
{{template "content" .Data}}
<p style="margin-top: 30px; font-size: 12px; color: #777;">This is an automated message from the {{.Conference}} secretariat.</p>
</body>
</html>{{end}}`

var contents = map[string]string{
	"registration": `{{define "content"}}
<p>Dear {{.Name}},</p>
<p>Thank you for registering. Your registration code is <strong>{{.Code}}</strong> ({{.Category}}).</p>
{{if .PaymentRequired}}<p>A registration fee of <strong>{{.Currency}} {{.Amount}}</strong> is due. Your registration is complete once the payment is received.</p>
{{if .PaymentLink}}<p><a href="{{.PaymentLink}}">Complete your payment</a></p>{{end}}
{{else}}<p>No registration fee applies to your category. Your registration is complete.</p>{{end}}
{{if .QRCodeURL}}<p>Show this code at the registration desk:</p><p><img src="{{.QRCodeURL}}" alt="{{.Code}}" width="180"></p>{{end}}
{{end}}`,

	"abstract_submitted": `{{define "content"}}
<p>Dear {{.Name}},</p>
<p>We have received your abstract <strong>"{{.Title}}"</strong>. Reference code: <strong>{{.Code}}</strong>.</p>
<p>The scientific committee will review it and you will be notified of the outcome by e-mail.</p>
{{end}}`,

	"abstract_reviewed": `{{define "content"}}
<p>Dear {{.Name}},</p>
<p>The review of your abstract <strong>"{{.Title}}"</strong> ({{.Code}}) is complete.</p>
<p>Status: <strong>{{.Status}}</strong></p>
{{if .Comment}}<p>Reviewer comments:</p><blockquote>{{.Comment}}</blockquote>{{end}}
{{end}}`,

	"payment_confirmation": `{{define "content"}}
<p>Dear {{.Name}},</p>
<p>We have received your payment of <strong>{{.Currency}} {{.Amount}}</strong>.</p>
<p>Payment reference: {{.PaymentID}}</p>
{{if .ReceiptURL}}<p><a href="{{.ReceiptURL}}">View your receipt</a></p>{{end}}
{{end}}`,

	"payment_reminder": `{{define "content"}}
<p>Dear {{.Name}},</p>
<p>Your registration <strong>{{.Code}}</strong> still has an outstanding fee of <strong>{{.Currency}} {{.Amount}}</strong>.</p>
{{if .PaymentLink}}<p><a href="{{.PaymentLink}}">Complete your payment</a></p>{{end}}
<p>If you have already paid, please ignore this message.</p>
{{end}}`,
}

var templates = map[string]*template.Template{}

func init() {
	for name, body := range contents {
		t := template.Must(template.New(name).Parse(layout))
		templates[name] = template.Must(t.Parse(body))
	}
}

func render(name, conference, subject string, data any) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown mail template %q", name)
	}
	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", map[string]any{
		"Conference": conference,
		"Subject":    subject,
		"Data":       data,
	})
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
