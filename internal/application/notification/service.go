package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// Service renders and delivers account emails. Callers treat every method as
// best-effort: a returned error is logged, never surfaced to the client.
type Service interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
	SendPasswordResetCode(ctx context.Context, to, name, code string) error
	SendWelcome(ctx context.Context, to, name string) error
}

var (
	codeTmpl = template.Must(template.New("code").Parse(
		`<p>Hi {{.Name}},</p>
<p>{{.Intro}}</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
<p>This code expires in {{.Minutes}} minutes. If you did not ask for it, ignore this email.</p>`))

	welcomeTmpl = template.Must(template.New("welcome").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your email address is confirmed. You can now sign in.</p>`))
)

type service struct {
	mailer  Mailer
	codeTTL time.Duration
}

func NewService(mailer Mailer, codeTTL time.Duration) Service {
	return &service{mailer: mailer, codeTTL: codeTTL}
}

func (s *service) SendVerificationCode(ctx context.Context, to, name, code string) error {
	return s.sendCode(ctx, to, "Verify your email", name, "Use this code to verify your email address:", code)
}

func (s *service) SendPasswordResetCode(ctx context.Context, to, name, code string) error {
	return s.sendCode(ctx, to, "Reset your password", name, "Use this code to reset your password:", code)
}

func (s *service) SendWelcome(ctx context.Context, to, name string) error {
	body, err := render(welcomeTmpl, map[string]any{"Name": name})
	if err != nil {
		return err
	}
	return s.mailer.SendEmail(ctx, to, "Welcome aboard", body)
}

func (s *service) sendCode(ctx context.Context, to, subject, name, intro, code string) error {
	body, err := render(codeTmpl, map[string]any{
		"Name":    name,
		"Intro":   intro,
		"Code":    code,
		"Minutes": int(s.codeTTL.Minutes()),
	})
	if err != nil {
		return err
	}
	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	return nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
