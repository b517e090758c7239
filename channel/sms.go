package channel

import (
	"context"
	"strings"
	"unicode"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// SMSAdapter delivers SMS notifications through its transport.
type SMSAdapter struct {
	transport Transport
	log       *logger.Logger
}

// NewSMSAdapter creates an SMS adapter. A nil transport uses the logging
// no-op sender.
func NewSMSAdapter(transport Transport) *SMSAdapter {
	log := logger.WithComponent("channel").WithFields(logger.Fields("channel", string(SMS)))
	if transport == nil {
		transport = devTransport(string(SMS), log)
	}
	return &SMSAdapter{transport: transport, log: log}
}

// Name returns the channel name.
func (a *SMSAdapter) Name() string { return string(SMS) }

// Send validates the message and delivers it through the transport.
func (a *SMSAdapter) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}
	if !validPhoneNumber(msg.Recipient) {
		return nil, failure.Permanent("invalid phone number format").
			WithDetail("recipient", msg.Recipient)
	}
	if strings.TrimSpace(msg.Body) == "" {
		return nil, failure.Permanent("missing message content")
	}

	if err := a.transport(ctx, msg); err != nil {
		return nil, err
	}

	a.log.Debug("sms sent", logger.Fields("recipient", msg.Recipient))
	return newReceipt(string(SMS), msg, truncate(msg.Body, 50)), nil
}

// validPhoneNumber accepts E.164-style numbers: optional leading +, then
// 7 to 15 digits.
func validPhoneNumber(number string) bool {
	digits := strings.TrimPrefix(number, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
