package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status     ConnectionStatus
		permissive Connection
		strict     Connection
	}{
		{"", Disconnected, Disconnected},
		{"   ", Disconnected, Disconnected},
		{"disconnected", Disconnected, Disconnected},
		{" DISCONNECTED ", Disconnected, Disconnected},
		{"pending", Pending, Pending},
		{"Pending", Pending, Pending},
		{"connected", Connected, Connected},
		{"authorized", Connected, Disconnected},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.permissive, Classify(tt.status, Permissive))
			assert.Equal(t, tt.strict, Classify(tt.status, Strict))
		})
	}
}

func TestIsConnected(t *testing.T) {
	assert.True(t, IsConnected("connected", Strict))
	assert.False(t, IsConnected("pending", Permissive))
	assert.False(t, IsConnected("", Permissive))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(""))
	assert.True(t, Known(" Pending "))
	assert.True(t, Known("CONNECTED"))
	assert.True(t, Known("disconnected"))
	assert.False(t, Known("authorized"))
}

func TestStateInstalled(t *testing.T) {
	assert.False(t, StateNeedsInstall.Installed())
	assert.False(t, State("").Installed())
	assert.True(t, StateReady.Installed())
	assert.True(t, StateLocked.Installed())
	assert.True(t, State("upgrading").Installed())
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
		wantErr bool
	}{
		{"", true, false},
		{"0.4.0", true, false},
		{"v0.4.1", true, false},
		{"1.2.0", true, false},
		{"0.3.9", false, false},
		{"not-a-version", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			ok, err := CheckVersion(tt.version)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
