package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/pkg/config"
)

// Message is a rendered email ready for dispatch.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends HTML email over SMTP.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer talks to a plain or TLS SMTP endpoint.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// New constructs an SMTPMailer.
func New(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers the message. Without configured credentials the message is
// logged and dropped, which keeps local development working offline.
func (m *SMTPMailer) Send(msg Message) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		m.logger.Warn("smtp credentials not configured, email not sent",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return nil
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	payload := m.encode(msg)

	if m.cfg.UseTLS {
		return m.sendTLS(addr, auth, msg.To, payload)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{msg.To}, payload); err != nil {
		m.logger.Error("email send failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) sendTLS(addr string, auth smtp.Auth, to string, payload []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("connect smtp server: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Quit() //nolint:errcheck

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return nil
}

func (m *SMTPMailer) encode(msg Message) []byte {
	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n",
		m.cfg.FromName, m.cfg.FromEmail, msg.To, msg.Subject)
	return []byte(headers + "\r\n" + msg.HTML)
}
