package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// Notifier delivers a plain-text notification to a single recipient.
// Callers on the checkout path treat delivery as best-effort and must not
// fail the order when Send returns an error.
type Notifier interface {
	Send(ctx context.Context, subject, body, from, to string) error
}

type smtpNotifier struct {
	addr string
}

// NewSMTPNotifier creates a Notifier that delivers over plain SMTP
func NewSMTPNotifier(host, port string) Notifier {
	return &smtpNotifier{addr: net.JoinHostPort(host, port)}
}

func (n *smtpNotifier) Send(ctx context.Context, subject, body, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body,
	)

	if err := smtp.SendMail(n.addr, nil, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

type nopNotifier struct{}

// NewNopNotifier creates a Notifier that discards everything.
// Used when outbound mail is disabled in configuration.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) Send(ctx context.Context, subject, body, from, to string) error {
	return nil
}
