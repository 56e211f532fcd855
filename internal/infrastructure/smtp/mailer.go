package smtp

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/go-rider-auth/internal/config"
)

// Mailer delivers HTML email through an SMTP relay.
type Mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}
}

// SendEmail sends a single HTML message. net/smtp has no context support, so ctx is
// only checked before dialing.
func (m *Mailer) SendEmail(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return m.send(addr, auth, m.from, []string{to}, m.buildMessage(to, subject, html))
}

func (m *Mailer) buildMessage(to, subject, html string) []byte {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.fromName), m.from)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
