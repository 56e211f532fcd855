package mailersend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rider-auth/internal/config"
	"github.com/mailersend/mailersend-go"
)

const sendTimeout = 10 * time.Second

// emailAPI is the part of the MailerSend email service the mailer uses.
type emailAPI interface {
	Send(ctx context.Context, message *mailersend.Message) (*mailersend.Response, error)
}

// Mailer delivers email through the MailerSend HTTP API.
type Mailer struct {
	email emailAPI
	from  mailersend.From
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	if cfg.MailerSendAPIKey == "" || cfg.MailFrom == "" {
		return nil, errors.New("mailersend: api key and sender address are required")
	}
	return &Mailer{
		email: mailersend.NewMailersend(cfg.MailerSendAPIKey).Email,
		from:  mailersend.From{Name: cfg.MailFromName, Email: cfg.MailFrom},
	}, nil
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, html string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	msg := &mailersend.Message{}
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: to}})
	msg.SetSubject(subject)
	msg.SetHTML(html)

	if _, err := m.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailersend send to %s: %w", to, err)
	}
	return nil
}
