package email

import (
	"context"
	"log/slog"
)

type devSender struct {
	log *slog.Logger
}

// NewDevSender returns a Sender that logs messages instead of delivering
// them. Used in development where no Postmark tokens exist; the reset
// link ends up in the service log.
func NewDevSender(log *slog.Logger) Sender {
	return &devSender{log: log}
}

func (s *devSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "email suppressed in development mode",
		"to", msg.To,
		"subject", msg.Subject,
		"tag", msg.Tag,
		"body_text", msg.BodyText,
	)
	return nil
}
