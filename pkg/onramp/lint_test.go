package onramp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(ws []Warning) []string {
	var out []string
	for _, w := range ws {
		out = append(out, w.Field)
	}
	return out
}

func TestLint_PresetsAreClean(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.Name, func(t *testing.T) {
			assert.Empty(t, Lint(Build(p.Form)))
		})
	}
}

func TestLint(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected []string
	}{
		{"empty", Params{}, nil},
		{"relative callback", Params{FieldCallbackURL: "/done"}, []string{FieldCallbackURL}},
		{"long currency", Params{FieldInputCurrency: "USDT"}, []string{FieldInputCurrency}},
		{"negative amount", Params{FieldInputAmount: "-5"}, []string{FieldInputAmount}},
		{"decimal amount", Params{FieldInputAmount: "10.50"}, nil},
		{"fractional usdc", Params{FieldAmountUsdc: "1.5"}, []string{FieldAmountUsdc}},
		{"token without chain", Params{FieldToToken: "0x0000000000000000000000000000000000000000"}, []string{FieldToToken}},
		{"non numeric chain", Params{FieldToToken: "base:0x0000000000000000000000000000000000000000"}, []string{FieldToToken}},
		{"bad evm token", Params{FieldToToken: "8453:0x0"}, []string{FieldToToken}},
		{"bad evm recipient", Params{FieldRecipientAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"}, []string{FieldRecipientAddress}},
		{
			"solana recipient",
			Params{
				FieldToToken:          "792703809:11111111111111111111111111111111",
				FieldRecipientAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fieldsOf(Lint(tt.params)))
		})
	}
}

func TestWarningString(t *testing.T) {
	ws := Lint(Params{FieldAmountUsdc: "abc"})
	require.Len(t, ws, 1)
	assert.Contains(t, ws[0].String(), "amountUsdc: ")
}
