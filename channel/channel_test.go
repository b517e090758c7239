package channel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skillsenselab/notifykit/failure"
)

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{"email": Email, "SMS": SMS, "Push": Push} {
		got, err := ParseKind(name)
		if err != nil {
			t.Errorf("%s: expected no error, got %v", name, err)
		}
		if got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}

	_, err := ParseKind("fax")
	if !failure.IsPermanent(err) {
		t.Errorf("expected permanent failure for unknown channel, got %v", err)
	}
}

func TestEmailAdapter_Send(t *testing.T) {
	adapter := NewEmailAdapter(nil)

	receipt, err := adapter.Send(context.Background(), Message{
		Recipient: "ops@example.com",
		Subject:   "Welcome",
		Body:      "Hello",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if receipt.Provider != "email" {
		t.Errorf("expected provider email, got %s", receipt.Provider)
	}
	if receipt.Recipient != "ops@example.com" {
		t.Errorf("expected recipient echoed, got %s", receipt.Recipient)
	}
	if !strings.HasPrefix(receipt.MessageID, "email_msg_") {
		t.Errorf("unexpected message id %s", receipt.MessageID)
	}
}

func TestEmailAdapter_InvalidAddress(t *testing.T) {
	adapter := NewEmailAdapter(nil)

	_, err := adapter.Send(context.Background(), Message{
		Recipient: "not-an-address",
		Body:      "Hello",
	})
	if !failure.IsPermanent(err) {
		t.Errorf("expected permanent failure, got %v", err)
	}
}

func TestAdapters_MissingRecipient(t *testing.T) {
	adapters := []Adapter{NewEmailAdapter(nil), NewSMSAdapter(nil), NewPushAdapter(nil)}

	for _, adapter := range adapters {
		_, err := adapter.Send(context.Background(), Message{Body: "Hello"})
		if !failure.IsPermanent(err) {
			t.Errorf("%s: expected permanent failure for missing recipient, got %v", adapter.Name(), err)
		}
	}
}

func TestAdapters_MissingContent(t *testing.T) {
	adapters := []Adapter{NewEmailAdapter(nil), NewSMSAdapter(nil), NewPushAdapter(nil)}
	recipients := map[string]string{"email": "ops@example.com", "sms": "+15550001111", "push": "device-token-1234"}

	for _, adapter := range adapters {
		_, err := adapter.Send(context.Background(), Message{Recipient: recipients[adapter.Name()]})
		if !failure.IsPermanent(err) {
			t.Errorf("%s: expected permanent failure for missing content, got %v", adapter.Name(), err)
		}
	}
}

func TestSMSAdapter_PhoneValidation(t *testing.T) {
	adapter := NewSMSAdapter(nil)

	valid := []string{"+15550001111", "15550001111", "5551234"}
	for _, number := range valid {
		if _, err := adapter.Send(context.Background(), Message{Recipient: number, Body: "hi"}); err != nil {
			t.Errorf("%s: expected valid, got %v", number, err)
		}
	}

	invalid := []string{"555-0011", "abc1234567", "+1", "1234567890123456"}
	for _, number := range invalid {
		_, err := adapter.Send(context.Background(), Message{Recipient: number, Body: "hi"})
		if !failure.IsPermanent(err) {
			t.Errorf("%s: expected permanent failure, got %v", number, err)
		}
	}
}

func TestPushAdapter_TokenValidation(t *testing.T) {
	adapter := NewPushAdapter(nil)

	_, err := adapter.Send(context.Background(), Message{Recipient: "short", Body: "hi"})
	if !failure.IsPermanent(err) {
		t.Errorf("expected permanent failure for short token, got %v", err)
	}

	receipt, err := adapter.Send(context.Background(), Message{Recipient: "device-token-1234", Body: "hi"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if receipt.Detail != "Notification" {
		t.Errorf("expected default title, got %s", receipt.Detail)
	}
}

func TestAdapter_TransportErrorPropagates(t *testing.T) {
	transportErr := failure.ConnectionFailed("smtp")
	adapter := NewEmailAdapter(func(ctx context.Context, msg Message) error {
		return transportErr
	})

	_, err := adapter.Send(context.Background(), Message{Recipient: "ops@example.com", Body: "hi"})
	if !errors.Is(err, transportErr) {
		t.Errorf("expected transport error unchanged, got %v", err)
	}
}

func TestRegistry_DefaultsToAllChannels(t *testing.T) {
	r, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(r.Kinds()) != 3 {
		t.Errorf("expected 3 channels, got %v", r.Kinds())
	}
}

func TestRegistry_GetDisabledChannel(t *testing.T) {
	r, err := NewRegistry([]Kind{Email})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := r.Get(Email); err != nil {
		t.Errorf("expected email adapter, got %v", err)
	}
	if _, err := r.Get(SMS); !failure.IsConfig(err) {
		t.Errorf("expected configuration failure for disabled channel, got %v", err)
	}
}

func TestRegistry_UnknownKind(t *testing.T) {
	_, err := NewRegistry([]Kind{Kind("fax")})
	if !failure.IsConfig(err) {
		t.Errorf("expected configuration failure, got %v", err)
	}
}

func TestRegistry_DuplicateKind(t *testing.T) {
	_, err := NewRegistry([]Kind{Email, Email})
	if !failure.IsConfig(err) {
		t.Errorf("expected configuration failure, got %v", err)
	}
}

func TestRegistry_InjectedTransport(t *testing.T) {
	var delivered []string
	r, err := NewRegistry([]Kind{Email}, WithTransport(Email, func(ctx context.Context, msg Message) error {
		delivered = append(delivered, msg.Recipient)
		return nil
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	adapter, _ := r.Get(Email)
	if _, err := adapter.Send(context.Background(), Message{Recipient: "ops@example.com", Body: "hi"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(delivered) != 1 || delivered[0] != "ops@example.com" {
		t.Errorf("expected injected transport to deliver, got %v", delivered)
	}
}
