// Package email delivers account lifecycle mail over SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/samuelireke/hoaxify/internal/server/config"
	"github.com/wneessen/go-mail"
)

// SMTPMailer implements services.Mailer over a plain SMTP endpoint
// (MailHog/Mailpit in development).
type SMTPMailer struct {
	config *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{config: cfg}
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.config.MailFrom); err != nil {
		return fmt.Errorf("mail from error: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to error: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.config.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.SMTPUser),
			mail.WithPassword(m.config.SMTPPassword),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("mail client error: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *SMTPMailer) SendAccountActivation(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(`<div>
  <b>Please click below link to activate your account</b>
</div>
<div>
  <a href="http://localhost:8080/#/login?token=%s">Activate</a>
</div>`, token)
	return m.send(ctx, to, "Account Activation", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(`<div>
  <b>Please click below link to reset your password</b>
</div>
<div>
  <a href="http://localhost:8080/#/password-reset?reset=%s">Reset</a>
</div>`, token)
	return m.send(ctx, to, "Password Reset", body)
}
