package cmd

import (
	"context"
	"encoding/json"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkp2p/peer-cli/internal/handshake"
	"github.com/zkp2p/peer-cli/pkg/extension"
)

type versionedExtension struct {
	*extension.FakeExtension
	version string
}

func (v versionedExtension) Version() string { return v.version }

func newStatusCmd(ext extension.Extension) StatusCmd {
	clock := &instantClock{now: time.Unix(1_700_000_000, 0)}
	return StatusCmd{
		ext:      ext,
		policy:   extension.Permissive,
		detector: handshake.Detector{Attempts: 2, Clock: clock},
		poller:   handshake.Poller{Clock: clock},
	}
}

func TestStatus_Connected(t *testing.T) {
	setupStdoutCapture(t)
	ext := versionedExtension{FakeExtension: connectedExtension(), version: "0.5.0"}

	err := newStatusCmd(ext).Run(context.Background(), StatusInput{})
	require.NoError(t, err)

	out := outBuf.String()
	assert.Contains(t, out, "Installed")
	assert.Contains(t, out, "0.5.0")
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "Onramp with Peer")
	assert.Equal(t, 1, ext.Calls("CheckConnectionStatus"))
}

func TestStatus_OldVersionWarns(t *testing.T) {
	setupStdoutCapture(t)
	ext := versionedExtension{FakeExtension: connectedExtension(), version: "0.1.0"}

	require.NoError(t, newStatusCmd(ext).Run(context.Background(), StatusInput{}))
	assert.Contains(t, outBuf.String(), "older than "+extension.MinSupportedVersion)
}

func TestStatus_NotInstalled(t *testing.T) {
	setupStdoutCapture(t)
	ext := &extension.FakeExtension{
		GetStateFunc: func(context.Context) (extension.State, error) { return extension.StateNeedsInstall, nil },
	}

	require.NoError(t, newStatusCmd(ext).Run(context.Background(), StatusInput{}))

	out := outBuf.String()
	assert.Contains(t, out, "Not installed")
	assert.Contains(t, out, "Install Peer Extension")
	assert.Equal(t, 0, ext.Calls("CheckConnectionStatus"))
}

func TestStatus_JSONOutput(t *testing.T) {
	setupStdoutCapture(t)
	read := captureStdout(t)
	ext := &extension.FakeExtension{
		CheckConnectionStatusFunc: func(context.Context) (extension.ConnectionStatus, error) {
			return extension.StatusPending, nil
		},
	}

	require.NoError(t, newStatusCmd(ext).Run(context.Background(), StatusInput{Output: "json"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(read()), &got))
	assert.Equal(t, "installed", got["extension_state"])
	assert.Equal(t, "pending", got["connection_status"])
	assert.Equal(t, "pending", got["connection"])
	assert.Equal(t, "Connect & Onramp", got["button_label"])
	assert.NotContains(t, got, "version")
}

func TestStatus_UnknownStatus(t *testing.T) {
	setupStdoutCapture(t)

	require.NoError(t, newStatusCmd(authorizedExtension()).Run(context.Background(), StatusInput{}))

	out := outBuf.String()
	assert.Contains(t, out, `Unrecognized connection status "authorized", treating it as connected`)
	assert.Contains(t, out, "Onramp with Peer")
}

func TestStatus_JSONOutputStaysCleanOnUnknownStatus(t *testing.T) {
	read := captureStdout(t)
	routePrinters(t, os.Stdout)

	require.NoError(t, newStatusCmd(authorizedExtension()).Run(context.Background(), StatusInput{Output: "json"}))

	out := read()
	assert.NotContains(t, out, "Unrecognized")
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "authorized", got["connection_status"])
	assert.Equal(t, "connected", got["connection"])
}

func TestStatus_WatchStopsOnCancel(t *testing.T) {
	setupStdoutCapture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	ext := &extension.FakeExtension{
		CheckConnectionStatusFunc: func(context.Context) (extension.ConnectionStatus, error) {
			switch calls.Add(1) {
			case 1:
				return extension.StatusDisconnected, nil
			case 2:
				return extension.StatusConnected, nil
			default:
				cancel()
				return extension.StatusConnected, nil
			}
		},
	}

	require.NoError(t, newStatusCmd(ext).Run(ctx, StatusInput{Watch: true}))

	out := outBuf.String()
	assert.Contains(t, out, "Watching extension status")
	assert.Contains(t, out, "Connect & Onramp")
	assert.Contains(t, out, "Onramp with Peer")
}

func TestStatus_InvalidOutput(t *testing.T) {
	err := newStatusCmd(&extension.FakeExtension{}).Run(context.Background(), StatusInput{Output: "table"})
	assert.ErrorContains(t, err, "unsupported --output value")
}
