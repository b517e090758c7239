package channel

import (
	"context"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// Factory constructs an adapter for one channel kind.
type Factory func(Transport) Adapter

// builtinFactories is the static kind-to-constructor map. Adapters are
// resolved from this explicit list at startup; there is no runtime
// discovery or request-time registration.
var builtinFactories = map[Kind]Factory{
	Email: func(t Transport) Adapter { return NewEmailAdapter(t) },
	SMS:   func(t Transport) Adapter { return NewSMSAdapter(t) },
	Push:  func(t Transport) Adapter { return NewPushAdapter(t) },
}

// Registry holds the adapters for the enabled channels. Built once at
// startup, read-only thereafter.
type Registry struct {
	adapters map[Kind]Adapter
}

// RegistryOption customizes registry construction.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	transports map[Kind]Transport
}

// WithTransport injects a provider transport for one channel kind.
func WithTransport(kind Kind, t Transport) RegistryOption {
	return func(o *registryOptions) { o.transports[kind] = t }
}

// NewRegistry builds a registry for the given channel kinds. With no
// kinds, every built-in channel is enabled. Unknown kinds are
// configuration failures.
func NewRegistry(kinds []Kind, opts ...RegistryOption) (*Registry, error) {
	o := registryOptions{transports: make(map[Kind]Transport)}
	for _, opt := range opts {
		opt(&o)
	}

	if len(kinds) == 0 {
		kinds = []Kind{Email, SMS, Push}
	}

	r := &Registry{adapters: make(map[Kind]Adapter, len(kinds))}
	for _, kind := range kinds {
		factory, ok := builtinFactories[kind]
		if !ok {
			return nil, failure.Config("no adapter for channel").WithDetail("channel", string(kind))
		}
		if _, dup := r.adapters[kind]; dup {
			return nil, failure.Config("channel enabled twice").WithDetail("channel", string(kind))
		}
		r.adapters[kind] = factory(o.transports[kind])
		logger.Debug("channel adapter registered", logger.Fields("channel", string(kind)))
	}

	return r, nil
}

// Get returns the adapter for a kind. A disabled or unknown kind is a
// configuration failure.
func (r *Registry) Get(kind Kind) (Adapter, error) {
	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, failure.Config("channel not enabled").WithDetail("channel", string(kind))
	}
	return adapter, nil
}

// Kinds returns the enabled channel kinds.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.adapters))
	for kind := range r.adapters {
		kinds = append(kinds, kind)
	}
	return kinds
}

// devTransport is the default transport: it logs the delivery and
// succeeds. Real provider SDKs plug in via WithTransport.
func devTransport(provider string, log *logger.Logger) Transport {
	return func(_ context.Context, msg Message) error {
		log.Info("simulated delivery", logger.Fields(
			"provider", provider,
			"recipient", msg.Recipient,
		))
		return nil
	}
}
