package broker

import (
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// Registry is the static set of supported brokers.
type Registry struct {
	processors map[string]Processor
}

// NewRegistry registers processors under their broker key.
func NewRegistry(processors ...Processor) *Registry {
	r := &Registry{processors: make(map[string]Processor, len(processors))}
	for _, p := range processors {
		r.processors[strings.ToLower(p.Broker())] = p
	}
	return r
}

// NewDefaultRegistry returns the registry of every supported broker.
func NewDefaultRegistry(h *fingerprint.Hasher) *Registry {
	return NewRegistry(
		NewKuveraProcessor(h),
		NewVestedProcessor(h),
	)
}

// FindProcessor selects the processor for the account's broker. It returns
// false when the broker is unknown or its processor declines the file.
func (r *Registry) FindProcessor(account model.Account, fileName string) (Processor, bool) {
	key := strings.ToLower(strings.TrimSpace(account.BrokerName()))
	p, ok := r.processors[key]
	if !ok {
		return nil, false
	}
	if !p.CanHandle(fileName) {
		return nil, false
	}
	return p, true
}

// Brokers lists the registered broker keys.
func (r *Registry) Brokers() []string {
	keys := make([]string, 0, len(r.processors))
	for k := range r.processors {
		keys = append(keys, k)
	}
	return keys
}
