package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCompletion(rootCmd, shell, &buf))
			assert.Contains(t, buf.String(), "peer")
		})
	}

	assert.Error(t, writeCompletion(rootCmd, "powershell", &bytes.Buffer{}))
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"onramp", "status", "presets", "pair", "unpair", "bridge", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
