// Package email delivers rendered newsletters over SMTP.
package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"TrendRadar/internal/config"
	"TrendRadar/internal/ports"
)

// Sender sends multipart (text + HTML) newsletters via SMTP with STARTTLS.
type Sender struct {
	server     string
	port       int
	username   string
	password   string
	from       string
	recipients []string
	send       func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.NewsletterSender = (*Sender)(nil)

// NewSender builds a sender from configuration.
func NewSender(cfg config.EmailConfig) *Sender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Sender{
		server:     cfg.Server,
		port:       cfg.Port,
		username:   cfg.Username,
		password:   cfg.Password,
		from:       from,
		recipients: cfg.Recipients,
		send:       smtp.SendMail,
	}
}

// Send posts the issue to every configured recipient.
func (s *Sender) Send(ctx context.Context, subject, htmlBody, textBody string) error {
	if s.server == "" || s.username == "" || s.password == "" || len(s.recipients) == 0 {
		return fmt.Errorf("email sender misconfigured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.from, s.recipients, subject, htmlBody, textBody)
	auth := smtp.PlainAuth("", s.username, s.password, s.server)
	addr := fmt.Sprintf("%s:%d", s.server, s.port)

	if err := s.send(addr, auth, s.from, s.recipients, msg); err != nil {
		return fmt.Errorf("send newsletter: %w", err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message with the plain
// text part first so clients prefer the HTML rendering.
func buildMessage(from string, to []string, subject, htmlBody, textBody string) []byte {
	const boundary = "trend-radar-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
