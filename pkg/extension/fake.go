package extension

import (
	"context"
	"sync"

	"github.com/zkp2p/peer-cli/pkg/onramp"
)

// FakeExtension is an in-memory Extension for tests. Nil funcs fall back to
// an installed, disconnected extension that approves every prompt.
type FakeExtension struct {
	GetStateFunc              func(ctx context.Context) (State, error)
	IsAvailableFunc           func() bool
	CheckConnectionStatusFunc func(ctx context.Context) (ConnectionStatus, error)
	RequestConnectionFunc     func(ctx context.Context) (bool, error)
	OnrampFunc                func(ctx context.Context, params onramp.Params) error
	OpenInstallPageFunc       func() error

	mu    sync.Mutex
	calls map[string]int
	sent  []onramp.Params
}

func (f *FakeExtension) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (f *FakeExtension) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// Sent returns the parameter sets passed to Onramp.
func (f *FakeExtension) Sent() []onramp.Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]onramp.Params, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *FakeExtension) GetState(ctx context.Context) (State, error) {
	f.record("GetState")
	if f.GetStateFunc != nil {
		return f.GetStateFunc(ctx)
	}
	return StateReady, nil
}

func (f *FakeExtension) IsAvailable() bool {
	f.record("IsAvailable")
	if f.IsAvailableFunc != nil {
		return f.IsAvailableFunc()
	}
	return true
}

func (f *FakeExtension) CheckConnectionStatus(ctx context.Context) (ConnectionStatus, error) {
	f.record("CheckConnectionStatus")
	if f.CheckConnectionStatusFunc != nil {
		return f.CheckConnectionStatusFunc(ctx)
	}
	return StatusDisconnected, nil
}

func (f *FakeExtension) RequestConnection(ctx context.Context) (bool, error) {
	f.record("RequestConnection")
	if f.RequestConnectionFunc != nil {
		return f.RequestConnectionFunc(ctx)
	}
	return true, nil
}

func (f *FakeExtension) Onramp(ctx context.Context, params onramp.Params) error {
	f.record("Onramp")
	f.mu.Lock()
	f.sent = append(f.sent, params)
	f.mu.Unlock()
	if f.OnrampFunc != nil {
		return f.OnrampFunc(ctx, params)
	}
	return nil
}

func (f *FakeExtension) OpenInstallPage() error {
	f.record("OpenInstallPage")
	if f.OpenInstallPageFunc != nil {
		return f.OpenInstallPageFunc()
	}
	return nil
}

var _ Extension = (*FakeExtension)(nil)
