package handshake

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/zkp2p/peer-cli/pkg/extension"
)

const DefaultPollInterval = 1500 * time.Millisecond

// Poller keeps a session's connection status fresh while the extension is
// installed.
type Poller struct {
	Ext      extension.Extension
	Interval time.Duration
	Clock    Clock
}

// Run polls immediately and then every Interval until ctx is done. The status
// is reset the moment ctx is cancelled, and a poll that resolves afterwards
// is discarded.
func (p Poller) Run(ctx context.Context, s *Session) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	clock := clockOrDefault(p.Clock)

	stop := context.AfterFunc(ctx, s.resetStatus)
	defer func() {
		stop()
		s.resetStatus()
	}()

	for {
		p.Once(ctx, s)
		if err := sleep(ctx, clock, interval); err != nil {
			return
		}
	}
}

// Once takes a single status reading. A failed query clears the status.
func (p Poller) Once(ctx context.Context, s *Session) {
	status, err := p.Ext.CheckConnectionStatus(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		pterm.Debug.Printf("Connection status check failed: %v\n", err)
		status = ""
	}
	s.setStatusIfActive(ctx, status)
}

// Watch detects the extension and, if it is installed, keeps the connection
// status polled until ctx is done. A session whose extension is not
// installed keeps an empty status.
func (s *Session) Watch(ctx context.Context, d Detector, p Poller) error {
	state, err := s.Detect(ctx, d)
	if err != nil {
		return err
	}
	if state != StateInstalled {
		s.resetStatus()
		return nil
	}
	p.Run(ctx, s)
	return nil
}
