package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zkp2p/peer-cli/internal/mockbridge"
	"github.com/zkp2p/peer-cli/pkg/extension"
	"github.com/zkp2p/peer-cli/pkg/util"
)

// BridgeCmd runs a simulated extension bridge for local development.
type BridgeCmd struct{}

// BridgeMockInput holds input for the mock bridge.
type BridgeMockInput struct {
	Addr          string
	State         string
	Version       string
	Reject        bool
	ApprovalDelay time.Duration
	Connected     bool
	Token         string
	// Ready, if set, receives the listening address once the server is up.
	Ready func(addr string)
}

func (in BridgeMockInput) options() (mockbridge.Options, error) {
	state := extension.State(in.State)
	switch state {
	case extension.StateReady, extension.StateLocked, extension.StateNeedsInstall:
	default:
		return mockbridge.Options{}, fmt.Errorf("invalid --state %q: use ready, locked or needs_install", in.State)
	}
	if in.ApprovalDelay < 0 {
		return mockbridge.Options{}, fmt.Errorf("--approval-delay must not be negative")
	}

	opts := mockbridge.Options{
		State:         state,
		Version:       in.Version,
		Approve:       !in.Reject,
		ApprovalDelay: in.ApprovalDelay,
		Token:         in.Token,
	}
	if in.Connected {
		opts.InitialStatus = extension.StatusConnected
	}
	return opts, nil
}

// Mock serves the simulated bridge until ctx is done.
func (c BridgeCmd) Mock(ctx context.Context, in BridgeMockInput) error {
	opts, err := in.options()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", in.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", in.Addr, err)
	}

	srv := &http.Server{
		Handler:           mockbridge.New(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	addr := ln.Addr().String()
	pterm.Success.Printf("Mock bridge listening on http://%s\n", addr)
	pterm.Info.Printf("State: %s, approve: %t, approval delay: %s\n", opts.State, opts.Approve, util.FormatDuration(opts.ApprovalDelay))
	pterm.Info.Printf("Metrics at http://%s/metrics\n", addr)
	if in.Ready != nil {
		in.Ready(addr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down mock bridge: %w", err)
	}
	pterm.Info.Println("Mock bridge stopped")
	return nil
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Tools for the extension bridge",
}

var bridgeMockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a simulated extension bridge",
	Long: `Run a simulated extension bridge on a local address.

The simulated extension answers state, connection and onramp requests the way
the real one does, so the onramp flow can be exercised without a browser.
Point the CLI at it with --bridge-url or PEER_BRIDGE_URL.`,
	Example: `  peer bridge mock --approval-delay 3s
  peer bridge mock --reject
  peer bridge mock --state needs_install`,
	Args: cobra.NoArgs,
	RunE: runBridgeMock,
}

func init() {
	bridgeMockCmd.Flags().String("addr", "127.0.0.1:19455", "Address to listen on")
	bridgeMockCmd.Flags().String("state", string(extension.StateReady), "Extension state to report (ready, locked, needs_install)")
	bridgeMockCmd.Flags().String("ext-version", "0.5.0", "Extension version to report")
	bridgeMockCmd.Flags().Bool("reject", false, "Reject connection requests")
	bridgeMockCmd.Flags().Duration("approval-delay", 0, "Keep approved connections pending for this long")
	bridgeMockCmd.Flags().Bool("connected", false, "Start already connected")
	bridgeMockCmd.Flags().String("token", "", "Require this pairing token")

	bridgeCmd.AddCommand(bridgeMockCmd)
}

func runBridgeMock(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	state, _ := cmd.Flags().GetString("state")
	version, _ := cmd.Flags().GetString("ext-version")
	reject, _ := cmd.Flags().GetBool("reject")
	delay, _ := cmd.Flags().GetDuration("approval-delay")
	connected, _ := cmd.Flags().GetBool("connected")
	token, _ := cmd.Flags().GetString("token")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return BridgeCmd{}.Mock(ctx, BridgeMockInput{
		Addr:          addr,
		State:         state,
		Version:       version,
		Reject:        reject,
		ApprovalDelay: delay,
		Connected:     connected,
		Token:         token,
	})
}
