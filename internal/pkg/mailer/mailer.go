package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"beautybook/internal/pkg/logger"
)

// Sender delivers a single plain-text e-mail.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(buildMessage(s.from, to, subject, body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// ConsoleSender logs mail instead of sending it. Used when SMTP is not configured.
type ConsoleSender struct {
	log *logger.Logger
}

func NewConsoleSender(log *logger.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("[DEV-EMAIL]", "to", to, "subject", subject, "body", body)
	return nil
}

// VerificationMailer renders the one-time code mail on top of a Sender.
type VerificationMailer struct {
	sender Sender
}

func NewVerificationMailer(sender Sender) *VerificationMailer {
	return &VerificationMailer{sender: sender}
}

func (m *VerificationMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Your BeautyBook confirmation code: %s\n\nThe code is valid for a few minutes. If you did not register, ignore this message.", code)
	return m.sender.Send(ctx, email, "BeautyBook confirmation code", body)
}
