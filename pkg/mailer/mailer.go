package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	Host      string `default:"smtp.gmail.com"`
	Port      int    `default:"587"`
	Address   string // sender account
	Password  string
	Recipient string        `default:"professionalbusinessadvisory@gmail.com"`
	Timeout   time.Duration `default:"30s"`
}

var ErrMissingCredentials = errors.New("mailer: account address or password is not configured")

// Envelope is one outgoing notification. Built fresh per submission, never
// stored.
type Envelope struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// SMTPTransport submits one message per Send over a STARTTLS-encrypted,
// authenticated session. The session is dialed, used for exactly one
// submission, and quit on every exit path.
type SMTPTransport struct {
	host       string
	port       int
	username   string
	password   string
	timeout    time.Duration
	clientOpts []mail.Option
}

type Option func(*SMTPTransport)

// WithClientOptions appends options for the underlying SMTP client. They are
// applied after the transport's own and may override them.
func WithClientOptions(opts ...mail.Option) Option {
	return func(t *SMTPTransport) {
		t.clientOpts = append(t.clientOpts, opts...)
	}
}

func NewSMTPTransport(cfg Config, opts ...Option) *SMTPTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	t := &SMTPTransport{
		host:     strings.TrimSpace(cfg.Host),
		port:     cfg.Port,
		username: strings.TrimSpace(cfg.Address),
		password: cfg.Password,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *SMTPTransport) Send(ctx context.Context, env Envelope) error {
	if t.username == "" || t.password == "" {
		return ErrMissingCredentials
	}

	msg := mail.NewMsg()
	if err := msg.From(env.From); err != nil {
		return fmt.Errorf("mailer: sender address: %w", err)
	}
	if err := msg.To(env.To); err != nil {
		return fmt.Errorf("mailer: recipient address: %w", err)
	}
	msg.Subject(env.Subject)
	msg.SetBodyString(mail.TypeTextHTML, env.HTMLBody)

	clientOpts := []mail.Option{
		mail.WithPort(t.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.username),
		mail.WithPassword(t.password),
		mail.WithTimeout(t.timeout),
	}
	clientOpts = append(clientOpts, t.clientOpts...)

	client, err := mail.NewClient(t.host, clientOpts...)
	if err != nil {
		return fmt.Errorf("mailer: create client: %w", err)
	}

	// Authentication happens during dial, so the session may already be open
	// by the time the dial fails. Release it on every exit path.
	if err := client.DialWithContext(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("mailer: dial: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Send(msg); err != nil {
		return fmt.Errorf("mailer: submit: %w", err)
	}
	return nil
}
