package handshake

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/zkp2p/peer-cli/pkg/extension"
)

const (
	DefaultDetectAttempts = 6
	DefaultDetectDelay    = 500 * time.Millisecond
)

// Detector probes for the extension a bounded number of times. The extension
// may finish injecting itself shortly after startup, so every probe,
// including the first, is preceded by Delay.
type Detector struct {
	Ext      extension.Extension
	Attempts int
	Delay    time.Duration
	Clock    Clock
}

// Detect returns StateInstalled on the first probe reporting any state other
// than needs_install, or StateNotInstalled once every attempt came back
// negative. Probe errors count as negative. If ctx is done first it returns
// StateUnknown and the context error.
func (d Detector) Detect(ctx context.Context) (ExtensionState, error) {
	attempts := d.Attempts
	if attempts <= 0 {
		attempts = DefaultDetectAttempts
	}
	delay := d.Delay
	if delay <= 0 {
		delay = DefaultDetectDelay
	}
	clock := clockOrDefault(d.Clock)

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := sleep(ctx, clock, delay); err != nil {
			return StateUnknown, err
		}
		state, err := d.Ext.GetState(ctx)
		if ctx.Err() != nil {
			return StateUnknown, ctx.Err()
		}
		if err != nil {
			pterm.Debug.Printf("Extension probe failed (attempt %d/%d): %v\n", attempt, attempts, err)
			continue
		}
		if state.Installed() {
			pterm.Debug.Printf("Extension detected on attempt %d (state %s)\n", attempt, state)
			return StateInstalled, nil
		}
		pterm.Debug.Printf("Extension not detected (attempt %d/%d, state %q)\n", attempt, attempts, state)
	}
	return StateNotInstalled, nil
}

// Detect runs one detection pass and records its result. A cancelled pass
// leaves the recorded state untouched.
func (s *Session) Detect(ctx context.Context, d Detector) (ExtensionState, error) {
	s.beginDetection()
	state, err := d.Detect(ctx)
	if err != nil {
		return s.ExtensionState(), err
	}
	if ctx.Err() != nil {
		return s.ExtensionState(), ctx.Err()
	}
	s.resolveDetection(state)
	return s.ExtensionState(), nil
}
