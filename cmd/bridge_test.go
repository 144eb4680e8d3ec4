package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkp2p/peer-cli/pkg/extension"
)

func TestBridgeMockInput_Options(t *testing.T) {
	opts, err := BridgeMockInput{State: "locked", Reject: true, ApprovalDelay: time.Second, Connected: true}.options()
	require.NoError(t, err)
	assert.Equal(t, extension.StateLocked, opts.State)
	assert.False(t, opts.Approve)
	assert.Equal(t, time.Second, opts.ApprovalDelay)
	assert.Equal(t, extension.StatusConnected, opts.InitialStatus)

	_, err = BridgeMockInput{State: "broken"}.options()
	assert.ErrorContains(t, err, "invalid --state")

	_, err = BridgeMockInput{State: "ready", ApprovalDelay: -time.Second}.options()
	assert.Error(t, err)
}

func TestBridgeMock_ServesUntilCancelled(t *testing.T) {
	setupStdoutCapture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- BridgeCmd{}.Mock(ctx, BridgeMockInput{
			Addr:          "127.0.0.1:0",
			State:         "ready",
			Version:       "0.5.0",
			ApprovalDelay: 1500 * time.Millisecond,
			Ready:         func(addr string) { addrCh <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("mock bridge exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("mock bridge did not start")
	}

	resp, err := http.Get("http://" + addr + "/v1/state")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()

	var state map[string]string
	require.NoError(t, json.Unmarshal(body.Bytes(), &state))
	assert.Equal(t, "ready", state["state"])
	assert.Equal(t, "0.5.0", state["version"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("mock bridge did not stop")
	}
	assert.Contains(t, outBuf.String(), "Mock bridge listening on http://"+addr)
	assert.Contains(t, outBuf.String(), "approval delay: 1.5s")
}
