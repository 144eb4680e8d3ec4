package handshake

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/zkp2p/peer-cli/pkg/extension"
	"github.com/zkp2p/peer-cli/pkg/onramp"
)

const (
	DefaultWaitInterval = time.Second
	DefaultWaitTimeout  = 15 * time.Second
)

// Phase is a step of a single connect attempt.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseCheckingStatus       Phase = "checking_status"
	PhaseAlreadyConnected     Phase = "already_connected"
	PhaseRequestingApproval   Phase = "requesting_approval"
	PhaseWaitingForConnection Phase = "waiting_for_connection"
	PhaseConnected            Phase = "connected"
	PhaseTimedOut             Phase = "timed_out"
	PhaseRejected             Phase = "rejected"
)

// OutcomeKind says how a successful Connect ended.
type OutcomeKind string

const (
	// OutcomeOnramped means the onramp request was handed to the extension.
	OutcomeOnramped OutcomeKind = "onramped"
	// OutcomeInstallRequired means the install page was opened instead.
	OutcomeInstallRequired OutcomeKind = "install_required"
)

type Outcome struct {
	Kind OutcomeKind
	// Params is the parameter set sent with the onramp request.
	Params onramp.Params
}

// Establisher runs the connect-then-onramp handshake.
type Establisher struct {
	Ext     extension.Extension
	Session *Session
	Clock   Clock
	// WaitInterval is the poll period while waiting for approval.
	WaitInterval time.Duration
	// WaitTimeout bounds the wait, measured from when waiting starts.
	WaitTimeout time.Duration
	// OnPhase, if set, observes every phase transition.
	OnPhase func(Phase)
}

// Connect makes sure the extension is installed and connected, then asks it
// to start an onramp built from form. Each call is a fresh attempt.
func (e *Establisher) Connect(ctx context.Context, form onramp.Form) (Outcome, error) {
	e.Session.setError("")
	e.phase(PhaseIdle)

	if !e.Ext.IsAvailable() {
		pterm.Debug.Println("Extension unavailable, opening install page")
		return e.OpenInstallPage()
	}

	e.Session.setConnecting(true)
	defer e.Session.setConnecting(false)

	out, err := e.connect(ctx, form)
	if err != nil && ctx.Err() == nil {
		e.Session.setError(UserMessage(err))
	}
	return out, err
}

// OpenInstallPage sends the user to the install page instead of connecting.
// Callers that already know the extension is missing use it to skip Connect.
func (e *Establisher) OpenInstallPage() (Outcome, error) {
	if err := e.Ext.OpenInstallPage(); err != nil {
		err = &SDKError{Op: "open install page", Err: err}
		e.Session.setError(UserMessage(err))
		return Outcome{}, err
	}
	return Outcome{Kind: OutcomeInstallRequired}, nil
}

func (e *Establisher) connect(ctx context.Context, form onramp.Form) (Outcome, error) {
	policy := e.Session.Policy()

	e.phase(PhaseCheckingStatus)
	status, err := e.Ext.CheckConnectionStatus(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		// The approval request below decides from here.
		pterm.Debug.Printf("Connection status check failed: %v\n", err)
		status = ""
	}
	e.Session.setStatusIfActive(ctx, status)

	switch extension.Classify(status, policy) {
	case extension.Connected:
		e.phase(PhaseAlreadyConnected)
	case extension.Pending:
		// A prompt is already open; asking again would stack a second one.
		if err := e.awaitConnection(ctx); err != nil {
			return Outcome{}, err
		}
	default:
		e.phase(PhaseRequestingApproval)
		approved, err := e.Ext.RequestConnection(ctx)
		if err != nil {
			return Outcome{}, wrapSDK(ctx, "request connection", err)
		}
		if !approved {
			e.phase(PhaseRejected)
			return Outcome{}, ErrConnectionRejected
		}
		if err := e.awaitConnection(ctx); err != nil {
			return Outcome{}, err
		}
	}

	e.phase(PhaseConnected)
	params := onramp.Build(form)
	if err := e.Ext.Onramp(ctx, params); err != nil {
		return Outcome{}, wrapSDK(ctx, "onramp", err)
	}
	return Outcome{Kind: OutcomeOnramped, Params: params}, nil
}

func (e *Establisher) awaitConnection(ctx context.Context) error {
	e.phase(PhaseWaitingForConnection)
	connected, err := e.waitForConnection(ctx)
	if err != nil {
		return err
	}
	if !connected {
		e.phase(PhaseTimedOut)
		return ErrConnectionTimedOut
	}
	return nil
}

func (e *Establisher) waitForConnection(ctx context.Context) (bool, error) {
	interval := e.WaitInterval
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	timeout := e.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	clock := clockOrDefault(e.Clock)
	policy := e.Session.Policy()

	start := clock.Now()
	for clock.Now().Sub(start) < timeout {
		status, err := e.Ext.CheckConnectionStatus(ctx)
		if err != nil {
			return false, wrapSDK(ctx, "check connection status", err)
		}
		e.Session.setStatusIfActive(ctx, status)
		if extension.IsConnected(status, policy) {
			return true, nil
		}
		if err := sleep(ctx, clock, interval); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (e *Establisher) phase(p Phase) {
	pterm.Debug.Printf("handshake phase: %s\n", p)
	if e.OnPhase != nil {
		e.OnPhase(p)
	}
}
