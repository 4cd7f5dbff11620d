package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/wneessen/go-mail"
)

const promptSubject = "Your purchase is waiting for you"

const promptBody = `Hello!

Thank you for your purchase. We could not find an account for %s,
so the product is being held for you.

Create an account with this email address and it will appear in your library:
%s
`

// Sender — часть SMTP-клиента go-mail, нужная для отправки.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPMailer отправляет письма покупателям через SMTP.
type SMTPMailer struct {
	sender Sender
	cfg    *cfg.MailCfg
	logger logger.Logger
}

// NewSMTPClient создаёт SMTP-клиент go-mail. Авторизация включается, только если задан пользователь.
func NewSMTPClient(cfg *cfg.MailCfg) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, e.Wrap("mailer.NewSMTPClient", err)
	}

	return client, nil
}

func NewSMTPMailer(sender Sender, cfg *cfg.MailCfg, logger logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		sender: sender,
		cfg:    cfg,
		logger: logger,
	}
}

// SendAccountCreationPrompt предлагает покупателю без аккаунта зарегистрироваться.
func (m *SMTPMailer) SendAccountCreationPrompt(ctx context.Context, email string) error {
	const op = "SMTPMailer.SendAccountCreationPrompt"

	msg, err := m.buildPrompt(email)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return e.Wrap(op, fmt.Errorf("%w: %w", e.ErrMailDelivery, err))
	}

	m.logger.Infof("account creation prompt sent to %s", email)
	return nil
}

func (m *SMTPMailer) buildPrompt(email string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(email); err != nil {
		return nil, err
	}

	msg.Subject(promptSubject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(promptBody, email, signupLink(m.cfg.SignupURL, email)))

	return msg, nil
}

// signupLink добавляет email в ссылку регистрации, чтобы форма была предзаполнена.
func signupLink(base, email string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return base
	}

	q := u.Query()
	q.Set("email", email)
	u.RawQuery = q.Encode()

	return u.String()
}
