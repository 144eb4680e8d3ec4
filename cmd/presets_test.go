package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsList_Table(t *testing.T) {
	setupStdoutCapture(t)

	require.NoError(t, PresetsCmd{}.List(PresetsInput{}))

	out := outBuf.String()
	for _, name := range []string{"baseEth", "solana", "mainnetEth", "avalancheUsdc", "exactUsdc"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "USDC (base units)")
}

func TestPresetsList_JSON(t *testing.T) {
	setupStdoutCapture(t)
	read := captureStdout(t)

	require.NoError(t, PresetsCmd{}.List(PresetsInput{Output: "json"}))

	var got []presetListing
	require.NoError(t, json.Unmarshal([]byte(read()), &got))
	require.Len(t, got, 5)
	assert.Equal(t, "baseEth", got[0].Name)
	assert.NotContains(t, got[0].Params, "inputAmount")
	assert.Equal(t, presetNames(), []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name, got[4].Name})
}

func TestPresetsList_InvalidOutput(t *testing.T) {
	assert.Error(t, PresetsCmd{}.List(PresetsInput{Output: "yaml"}))
}
