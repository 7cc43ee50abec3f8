package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/reyesjorge76/jr-portfolio/internal/config"
)

// Notifier forwards an accepted submission.
type Notifier interface {
	Notify(ctx context.Context, f Form) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, f Form) error

func (fn NotifierFunc) Notify(ctx context.Context, f Form) error { return fn(ctx, f) }

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends submissions through an SMTP relay.
type Mailer struct {
	cfg  config.SMTP
	send sendFunc
}

func NewMailer(cfg config.SMTP) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Notify emails f to the site owner with Reply-To set to the visitor.
func (m *Mailer) Notify(ctx context.Context, f Form) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	return m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, m.compose(f))
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

func (m *Mailer) compose(f Form) []byte {
	f.Name = headerBreaks.Replace(f.Name)
	f.Email = headerBreaks.Replace(f.Email)
	f.Subject = headerBreaks.Replace(f.Subject)
	subject := fmt.Sprintf("Portfolio Contact: %s", f.Name)
	if f.Subject != "" {
		subject += " - " + f.Subject
	}
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, f.Subject, f.Message)

	return []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + f.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
