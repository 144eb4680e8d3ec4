package handshake

import (
	"context"
	"sync"

	"github.com/zkp2p/peer-cli/pkg/extension"
)

// ExtensionState is the outcome of presence detection.
type ExtensionState string

const (
	StateUnknown      ExtensionState = "unknown"
	StateChecking     ExtensionState = "checking"
	StateInstalled    ExtensionState = "installed"
	StateNotInstalled ExtensionState = "not_installed"
)

// Resolved reports whether detection has finished.
func (s ExtensionState) Resolved() bool {
	return s == StateInstalled || s == StateNotInstalled
}

// Snapshot is a consistent copy of the session's observable state.
type Snapshot struct {
	ExtensionState   ExtensionState             `json:"extension_state"`
	ConnectionStatus extension.ConnectionStatus `json:"connection_status"`
	Connecting       bool                       `json:"connecting"`
	Error            string                     `json:"error,omitempty"`
	ButtonLabel      string                     `json:"button_label"`
}

// Session holds what the user sees: whether the extension is present, the
// latest connection status, whether a connect is in progress and the last
// error message. Pollers write to it from their own goroutines.
type Session struct {
	policy extension.UnknownStatusPolicy

	mu         sync.Mutex
	extState   ExtensionState
	status     extension.ConnectionStatus
	connecting bool
	lastErr    string
	onChange   func(Snapshot)
	onUnknown  func(extension.ConnectionStatus)
}

// NewSession returns a session in the unknown state.
func NewSession(policy extension.UnknownStatusPolicy) *Session {
	return &Session{policy: policy, extState: StateUnknown}
}

// Policy is the rule applied to unrecognized connection statuses.
func (s *Session) Policy() extension.UnknownStatusPolicy {
	return s.policy
}

// OnChange registers fn to be called after every state change. It must be
// set before any detection or polling starts.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// OnUnknownStatus registers fn to be called whenever the connection status
// changes to a value outside the recognized set. Like OnChange, it must be
// set before any detection or polling starts.
func (s *Session) OnUnknownStatus(fn func(extension.ConnectionStatus)) {
	s.mu.Lock()
	s.onUnknown = fn
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) ExtensionState() ExtensionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extState
}

func (s *Session) ConnectionStatus() extension.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ButtonLabel is the call-to-action text for the current state.
func (s *Session) ButtonLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttonLabelLocked()
}

func (s *Session) buttonLabelLocked() string {
	switch s.extState {
	case StateUnknown, StateChecking:
		return "Checking extension"
	case StateNotInstalled:
		return "Install Peer Extension"
	}
	if s.connecting {
		return "Connecting"
	}
	if extension.IsConnected(s.status, s.policy) {
		return "Onramp with Peer"
	}
	return "Connect & Onramp"
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ExtensionState:   s.extState,
		ConnectionStatus: s.status,
		Connecting:       s.connecting,
		Error:            s.lastErr,
		ButtonLabel:      s.buttonLabelLocked(),
	}
}

// update applies fn under the lock and notifies the observer if fn reports a
// change.
func (s *Session) update(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	notify := s.onChange
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if changed && notify != nil {
		notify(snap)
	}
}

// beginDetection moves unknown to checking.
func (s *Session) beginDetection() {
	s.update(func() bool {
		if s.extState != StateUnknown {
			return false
		}
		s.extState = StateChecking
		return true
	})
}

// resolveDetection records the detection result. The state is written at
// most once; later calls are ignored.
func (s *Session) resolveDetection(state ExtensionState) bool {
	applied := false
	s.update(func() bool {
		if s.extState.Resolved() || !state.Resolved() {
			return false
		}
		s.extState = state
		applied = true
		return true
	})
	return applied
}

// setStatusIfActive overwrites the connection status unless ctx is already
// done. The check and the write happen under the same lock as the reset
// performed on deactivation, so a stale result can never land after it.
func (s *Session) setStatusIfActive(ctx context.Context, status extension.ConnectionStatus) bool {
	applied, changed := false, false
	var unknown func(extension.ConnectionStatus)
	s.update(func() bool {
		if ctx.Err() != nil {
			return false
		}
		applied = true
		if s.status == status {
			return false
		}
		s.status = status
		changed = true
		unknown = s.onUnknown
		return true
	})
	if changed && unknown != nil && !extension.Known(status) {
		unknown(status)
	}
	return applied
}

func (s *Session) resetStatus() {
	s.update(func() bool {
		if s.status == "" {
			return false
		}
		s.status = ""
		return true
	})
}

func (s *Session) setConnecting(v bool) {
	s.update(func() bool {
		if s.connecting == v {
			return false
		}
		s.connecting = v
		return true
	})
}

func (s *Session) setError(msg string) {
	s.update(func() bool {
		if s.lastErr == msg {
			return false
		}
		s.lastErr = msg
		return true
	})
}
