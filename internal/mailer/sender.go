package mailer

import (
	"context"

	"github.com/campusconnect/campus-api/internal/config"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a resend-backed sender when an API key is configured and a logging no-op otherwise.
func New(conf *config.MailConfig) Sender {
	if conf == nil || conf.ResendAPIKey == "" {
		return NewNoopSender()
	}

	return NewResendSender(conf.ResendAPIKey, conf.From)
}
