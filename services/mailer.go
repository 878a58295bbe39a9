package services

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

// Mailer is the outbound email contract. Delivery either succeeds or returns
// an error; retry policy is the caller's business.
type Mailer interface {
	SendEmail(to, subject, html string) error
}

// SMTPMailer sends mail through the SMTP_* configured server
type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// SendEmail sends an HTML email using gomail
func (m *SMTPMailer) SendEmail(to, subject, html string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", smtpUser)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(msg)
}
