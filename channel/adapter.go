// Package channel defines the notification channel adapters executed
// inside bulkhead partitions: the adapter contract, shared message
// validation, a static kind-to-factory registry resolved at startup, and
// the built-in email, SMS, and push adapters.
package channel

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillsenselab/notifykit/failure"
)

// Kind is a notification delivery mechanism.
type Kind string

const (
	Email Kind = "email"
	SMS   Kind = "sms"
	Push  Kind = "push"
)

// ParseKind converts a channel name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(name)) {
	case Email:
		return Email, nil
	case SMS:
		return SMS, nil
	case Push:
		return Push, nil
	default:
		return "", failure.Permanent("unknown channel").WithDetail("channel", name)
	}
}

// Message is the unit a channel adapter delivers.
type Message struct {
	// ID correlates the message across attempts and logs.
	ID string `json:"id"`
	// Recipient is channel-specific: an email address, a phone number, or
	// a device token.
	Recipient string `json:"recipient"`
	// Subject is used by channels that have one; push uses it as title.
	Subject string `json:"subject,omitempty"`
	// Body is the message content.
	Body string `json:"body"`
	// Metadata carries provider-specific extras.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Receipt is the provider acknowledgment for a delivered message.
type Receipt struct {
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
	Recipient string `json:"recipient"`
	Detail    string `json:"detail,omitempty"`
}

// Adapter is the per-channel send implementation. It is the unit of work
// executed inside a bulkhead partition, optionally wrapped with retry.
type Adapter interface {
	// Name returns the channel name, which doubles as the partition name.
	Name() string
	// Send delivers the message. Failures should be tagged retryable or
	// permanent; untagged errors are treated as retryable by the retry
	// layer.
	Send(ctx context.Context, msg Message) (*Receipt, error)
}

// Transport performs the actual provider call for an adapter. Injecting it
// keeps provider SDKs out of this core and makes adapters testable.
type Transport func(ctx context.Context, msg Message) error

// validateMessage enforces the rules common to every channel: a recipient
// and some content must be present. Violations are permanent failures;
// retrying cannot supply a missing recipient.
func validateMessage(msg Message) error {
	if strings.TrimSpace(msg.Recipient) == "" {
		return failure.Permanent("missing recipient")
	}
	if strings.TrimSpace(msg.Body) == "" && strings.TrimSpace(msg.Subject) == "" {
		return failure.Permanent("missing message content")
	}
	return nil
}

// newReceipt builds a provider acknowledgment with a fresh receipt ID.
func newReceipt(provider string, msg Message, detail string) *Receipt {
	return &Receipt{
		MessageID: provider + "_msg_" + uuid.NewString(),
		Provider:  provider,
		Recipient: msg.Recipient,
		Detail:    detail,
	}
}
