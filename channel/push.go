package channel

import (
	"context"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// minDeviceTokenLength filters out obviously malformed tokens before any
// provider call.
const minDeviceTokenLength = 8

// PushAdapter delivers push notifications through its transport.
type PushAdapter struct {
	transport Transport
	log       *logger.Logger
}

// NewPushAdapter creates a push adapter. A nil transport uses the logging
// no-op sender.
func NewPushAdapter(transport Transport) *PushAdapter {
	log := logger.WithComponent("channel").WithFields(logger.Fields("channel", string(Push)))
	if transport == nil {
		transport = devTransport(string(Push), log)
	}
	return &PushAdapter{transport: transport, log: log}
}

// Name returns the channel name.
func (a *PushAdapter) Name() string { return string(Push) }

// Send validates the message and delivers it through the transport.
func (a *PushAdapter) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}
	if len(msg.Recipient) < minDeviceTokenLength {
		return nil, failure.Permanent("invalid device token").
			WithDetail("recipient", msg.Recipient)
	}

	if err := a.transport(ctx, msg); err != nil {
		return nil, err
	}

	title := msg.Subject
	if title == "" {
		title = "Notification"
	}
	a.log.Debug("push sent", logger.Fields("title", title))
	return newReceipt(string(Push), msg, title), nil
}
