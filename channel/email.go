package channel

import (
	"context"
	"strings"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// EmailAdapter delivers email notifications through its transport.
type EmailAdapter struct {
	transport Transport
	log       *logger.Logger
}

// NewEmailAdapter creates an email adapter. A nil transport uses the
// logging no-op sender.
func NewEmailAdapter(transport Transport) *EmailAdapter {
	log := logger.WithComponent("channel").WithFields(logger.Fields("channel", string(Email)))
	if transport == nil {
		transport = devTransport(string(Email), log)
	}
	return &EmailAdapter{transport: transport, log: log}
}

// Name returns the channel name.
func (a *EmailAdapter) Name() string { return string(Email) }

// Send validates the message and delivers it through the transport.
func (a *EmailAdapter) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}
	if !strings.Contains(msg.Recipient, "@") {
		return nil, failure.Permanent("invalid email address format").
			WithDetail("recipient", msg.Recipient)
	}

	if err := a.transport(ctx, msg); err != nil {
		return nil, err
	}

	a.log.Debug("email sent", logger.Fields("recipient", msg.Recipient, "subject", msg.Subject))
	return newReceipt(string(Email), msg, msg.Subject), nil
}
