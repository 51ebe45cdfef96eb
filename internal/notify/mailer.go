package notify

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// Mailer delivers best-effort email. The dispatcher swallows every error
// from it; implementations need not retry.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// smtpMailer sends through an SMTP relay via go-mail.
type smtpMailer struct {
	client *mail.Client
	from   string
}

// stubMailer logs instead of sending. Selected when no SMTP host is
// configured, mirroring development setups.
type stubMailer struct {
	logger *zap.Logger
}

// NewMailer picks SMTP when configured, the logging stub otherwise.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return &stubMailer{logger: logger}, nil
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &smtpMailer{client: client, from: cfg.From}, nil
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return m.client.DialAndSendWithContext(ctx, msg)
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Debug("mail stub",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)),
	)
	return nil
}
