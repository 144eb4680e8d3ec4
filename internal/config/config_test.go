package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"github.com/zkp2p/peer-cli/internal/handshake"
	"github.com/zkp2p/peer-cli/pkg/extension"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvBridgeURL, EnvInstallURL, EnvToken, EnvConnectTimeout,
		EnvStatusInterval, EnvDetectAttempts, EnvDetectDelay, EnvStrictStatus,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, extension.DefaultBridgeURL, cfg.BridgeURL)
	assert.Equal(t, extension.DefaultInstallURL, cfg.InstallURL)
	assert.Equal(t, handshake.DefaultWaitTimeout, cfg.ConnectTimeout)
	assert.Equal(t, handshake.DefaultWaitInterval, cfg.WaitInterval)
	assert.Equal(t, handshake.DefaultPollInterval, cfg.StatusInterval)
	assert.Equal(t, handshake.DefaultDetectAttempts, cfg.DetectAttempts)
	assert.Equal(t, handshake.DefaultDetectDelay, cfg.DetectDelay)
	assert.Equal(t, extension.Permissive, cfg.Policy())
	assert.Empty(t, cfg.Token)
}

func TestLoad_FromEnv(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	t.Setenv(EnvBridgeURL, "http://127.0.0.1:9999")
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvConnectTimeout, "30s")
	t.Setenv(EnvStatusInterval, "3s")
	t.Setenv(EnvDetectAttempts, "10")
	t.Setenv(EnvDetectDelay, "250ms")
	t.Setenv(EnvStrictStatus, "true")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://127.0.0.1:9999", cfg.BridgeURL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 3*time.Second, cfg.StatusInterval)
	assert.Equal(t, 10, cfg.DetectAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.DetectDelay)
	assert.Equal(t, extension.Strict, cfg.Policy())
}

func TestLoad_TokenFromKeyring(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	require.NoError(t, SaveToken("  stored-token \n"))

	cfg := Load()
	assert.Equal(t, "stored-token", cfg.Token)

	t.Setenv(EnvToken, "env-wins")
	assert.Equal(t, "env-wins", Load().Token)
}

func TestValidate_AggregatesProblems(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	t.Setenv(EnvBridgeURL, "not a url")
	t.Setenv(EnvConnectTimeout, "soon")
	t.Setenv(EnvDetectAttempts, "many")
	t.Setenv(EnvStrictStatus, "maybe")

	err := Load().Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "config validation failed:")
	assert.Contains(t, msg, "PEER_CONNECT_TIMEOUT")
	assert.Contains(t, msg, "PEER_DETECT_ATTEMPTS")
	assert.Contains(t, msg, "PEER_STRICT_STATUS")
	assert.Contains(t, msg, "bridge url")
}

func TestValidate_RejectsNonPositive(t *testing.T) {
	cfg := &Config{
		BridgeURL:      extension.DefaultBridgeURL,
		InstallURL:     extension.DefaultInstallURL,
		ConnectTimeout: 0,
		WaitInterval:   time.Second,
		StatusInterval: time.Second,
		DetectAttempts: 0,
		DetectDelay:    0,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect timeout must be positive")
	assert.Contains(t, err.Error(), "detect attempts must be positive")
	assert.Contains(t, err.Error(), "detect delay must be positive")
}

func TestValidate_RejectsZeroDetectDelayFromEnv(t *testing.T) {
	keyring.MockInit()
	clearEnv(t)
	t.Setenv(EnvDetectDelay, "0s")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect delay must be positive")
}

func TestTokenLifecycle(t *testing.T) {
	keyring.MockInit()

	token, err := LoadToken()
	require.NoError(t, err)
	assert.Empty(t, token)

	assert.Error(t, SaveToken("   "))
	require.NoError(t, SaveToken("abc"))

	token, err = LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	removed, err := DeleteToken()
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = DeleteToken()
	require.NoError(t, err)
	assert.False(t, removed)
}
