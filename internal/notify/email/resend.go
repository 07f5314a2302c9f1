package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	log    zerolog.Logger
}

// NewResendSender creates a sender with a default from address.
func NewResendSender(apiKey, from string, log zerolog.Logger) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from, log: log}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = s.from
	}
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	s.log.Info().Str("message_id", sent.Id).Strs("to", msg.To).Msg("invite mail sent")
	return nil
}
