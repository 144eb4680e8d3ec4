// Package extension defines the capability surface of the PeerAuth browser
// extension and a client that reaches it through the local bridge.
package extension

import (
	"context"

	"github.com/zkp2p/peer-cli/pkg/onramp"
)

// State is the extension state reported by a capability probe.
type State string

const (
	// StateNeedsInstall means the extension is absent from the host browser.
	StateNeedsInstall State = "needs_install"
	StateReady        State = "ready"
	StateLocked       State = "locked"
)

// Installed reports whether the probe found the extension. Every state other
// than needs_install counts.
func (s State) Installed() bool {
	return s != "" && s != StateNeedsInstall
}

// Extension is the subset of the PeerAuth extension SDK that the onramp flow
// uses.
type Extension interface {
	GetState(ctx context.Context) (State, error)
	IsAvailable() bool
	// CheckConnectionStatus returns "" when the extension reports no status.
	CheckConnectionStatus(ctx context.Context) (ConnectionStatus, error)
	RequestConnection(ctx context.Context) (bool, error)
	Onramp(ctx context.Context, params onramp.Params) error
	OpenInstallPage() error
}
