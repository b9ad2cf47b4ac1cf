package types

import (
	"context"
	"sync"
)

// DeliveryAdapter is a pluggable chat-platform sink. Implementations live
// outside the engine; the dispatcher only ever talks to this interface.
//
// SendMessage and SendText return true only when the platform acknowledged
// acceptance. A false return means the entry will be retried next cycle.
type DeliveryAdapter interface {
	PlatformName() string
	Start() error
	Stop() error
	SendMessage(ctx context.Context, channelID string, msg Message) bool
	SendText(ctx context.Context, channelID string, text string) bool
}

var (
	adaptersMutex sync.RWMutex
	adapters      = make(map[string]DeliveryAdapter)
)

// RegisterAdapter makes an adapter available for its platform name.
// Registering a second adapter for the same platform replaces the first.
func RegisterAdapter(a DeliveryAdapter) {
	adaptersMutex.Lock()
	defer adaptersMutex.Unlock()
	adapters[a.PlatformName()] = a
}

// Adapter returns the adapter registered for platform, or nil.
func Adapter(platform string) DeliveryAdapter {
	adaptersMutex.RLock()
	defer adaptersMutex.RUnlock()
	return adapters[platform]
}

// Adapters returns all registered adapters.
func Adapters() []DeliveryAdapter {
	adaptersMutex.RLock()
	defer adaptersMutex.RUnlock()
	out := make([]DeliveryAdapter, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, a)
	}
	return out
}

// UnregisterAdapter removes the adapter for platform. Used by tests.
func UnregisterAdapter(platform string) {
	adaptersMutex.Lock()
	defer adaptersMutex.Unlock()
	delete(adapters, platform)
}
