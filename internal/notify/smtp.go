package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"voice-webhooks/internal/config"
	"voice-webhooks/internal/message"
)

// SMTPSender submits email over an authenticated SMTP connection
// (STARTTLS + PLAIN by default).
type SMTPSender struct {
	cfg  config.SMTPConfig
	from string
	to   []string
}

func NewSMTPSender(cfg config.SMTPConfig, email config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, from: email.From, to: email.To}
}

func (s *SMTPSender) Name() string { return config.EmailProviderSMTP }

func (s *SMTPSender) SendEmail(ctx context.Context, e message.Email) error {
	e = withDefaults(e, s.from, s.to)
	if s.cfg.Host == "" || s.cfg.Username == "" || s.cfg.Password == "" || e.From == "" || len(e.To) == 0 {
		return fmt.Errorf("smtp: %w", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smtp: context cancelled before sending: %w", err)
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: connect: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer client.Close()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("smtp: start tls: %w", err)
		}
	}
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp: auth: %w", err)
	}
	if err := client.Mail(e.From); err != nil {
		return fmt.Errorf("smtp: set sender: %w", err)
	}
	for _, rcpt := range e.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp: set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: open data: %w", err)
	}
	if _, err := w.Write(buildMIME(e)); err != nil {
		return fmt.Errorf("smtp: write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: close data: %w", err)
	}
	return client.Quit()
}

func buildMIME(e message.Email) []byte {
	ct := e.ContentType
	if ct == "" {
		ct = message.ContentTypeText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(e.From))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(strings.Join(e.To, ", ")))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", headerValue(e.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=UTF-8\r\n", ct)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(e.Body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}

// Header values come from webhook payloads; line breaks in them would start new
// headers.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func headerValue(s string) string {
	return lineBreaks.Replace(s)
}

func withDefaults(e message.Email, from string, to []string) message.Email {
	if e.From == "" {
		e.From = from
	}
	if len(e.To) == 0 {
		e.To = to
	}
	return e
}
