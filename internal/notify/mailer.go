// Package notify sends reminder emails to users who have not parked
// recently.
package notify

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer wraps an SMTP dialer.  Settings come from SMTP_HOST,
// SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and FROM_EMAIL; with no host
// configured the mailer is disabled and Send becomes a no-op.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// NewMailer builds a Mailer from the environment.
func NewMailer() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return &Mailer{}
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	d.TLSConfig = &tls.Config{ServerName: host}
	from := os.Getenv("FROM_EMAIL")
	if from == "" {
		from = "noreply@parking.local"
	}
	return &Mailer{from: from, dialer: d}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool { return m.dialer != nil }

// Send delivers a plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	if m.dialer == nil {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
