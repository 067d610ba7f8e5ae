package mailer

import (
	"context"

	"go.uber.org/zap"
)

// NoopSender logs messages instead of delivering them.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	zap.L().Info("email not sent, no mail provider configured", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))

	return nil
}
