package smtp

//go:generate go run go.uber.org/mock/mockgen -source=./smtp.go -destination=./mocks/smtp_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

var ErrNotConfigured = errors.New("smtp credentials are not configured")

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Envelope struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender hands a composed envelope to the mail server.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, envelope Envelope) error
}

type senderImpl struct {
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Sender {
	if !cfg.SMTPConfigured() {
		log.Warn().Msg("SMTP credentials missing, outgoing email will be skipped")
	}

	return &senderImpl{
		config: cfg,
		otel:   otel,
	}
}

func (s *senderImpl) Configured() bool {
	return s.config.SMTPConfigured()
}

func (s *senderImpl) Send(ctx context.Context, envelope Envelope) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSMTPScopeName, constant.OtelSMTPScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !s.Configured() {
		return ErrNotConfigured
	}

	scope.SetAttributes(map[string]any{
		"smtp.host":        s.config.SMTP.Host,
		"smtp.port":        s.config.SMTP.Port,
		"smtp.attachments": len(envelope.Attachments),
	})

	msg, err := s.message(envelope)
	if err != nil {
		return err
	}

	client, err := s.client()
	if err != nil {
		return err
	}

	timeout := time.Duration(s.config.SMTP.TimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

func (s *senderImpl) message(envelope Envelope) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(s.config.Sender()); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	if err := msg.To(envelope.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(envelope.Subject)
	msg.SetBodyString(mail.TypeTextHTML, envelope.HTML)

	for _, attachment := range envelope.Attachments {
		err := msg.AttachReader(
			attachment.Filename,
			bytes.NewReader(attachment.Content),
			mail.WithFileContentType(mail.ContentType(attachment.ContentType)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", attachment.Filename, err)
		}
	}

	return msg, nil
}

func (s *senderImpl) client() (*mail.Client, error) {
	cfg := s.config.SMTP

	options := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
	}

	if cfg.TimeoutSeconds > 0 {
		options = append(options, mail.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}

	if cfg.Secure {
		options = append(options, mail.WithSSL())
	} else {
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return client, nil
}
