package onramp

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

const (
	demoReferrer     = "Peer Demo Wallet"
	demoReferrerLogo = "https://demo.zkp2p.xyz/peer-profile.png"
	demoCallbackURL  = "https://demo.zkp2p.xyz"
	demoEVMRecipient = "0x84e113087C97Cd80eA9D78983D4B8Ff61ECa1929"
)

// PresetInfo describes one of the built-in example forms.
type PresetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Form        Form   `json:"form"`
}

var presets = map[string]PresetInfo{
	"baseEth": {
		Name:        "baseEth",
		Description: "Onramp to Base ETH",
		Form: Form{
			Referrer:         demoReferrer,
			ReferrerLogo:     demoReferrerLogo,
			CallbackURL:      demoCallbackURL,
			ToToken:          "8453:0x0000000000000000000000000000000000000000",
			RecipientAddress: demoEVMRecipient,
		},
	},
	"solana": {
		Name:        "solana",
		Description: "Onramp 10 USD to Solana",
		Form: Form{
			Referrer:         demoReferrer,
			ReferrerLogo:     demoReferrerLogo,
			CallbackURL:      demoCallbackURL,
			InputCurrency:    "USD",
			InputAmount:      "10",
			ToToken:          "792703809:11111111111111111111111111111111",
			RecipientAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		},
	},
	"mainnetEth": {
		Name:        "mainnetEth",
		Description: "Onramp 10 EUR via Revolut",
		Form: Form{
			Referrer:         demoReferrer,
			ReferrerLogo:     demoReferrerLogo,
			CallbackURL:      demoCallbackURL,
			InputCurrency:    "EUR",
			InputAmount:      "10",
			PaymentPlatform:  "revolut",
			ToToken:          "1:0x0000000000000000000000000000000000000000",
			RecipientAddress: demoEVMRecipient,
		},
	},
	"avalancheUsdc": {
		Name:        "avalancheUsdc",
		Description: "Onramp 10 USD to Avalanche USDC",
		Form: Form{
			Referrer:         demoReferrer,
			ReferrerLogo:     demoReferrerLogo,
			CallbackURL:      demoCallbackURL,
			InputCurrency:    "USD",
			InputAmount:      "10",
			ToToken:          "43114:0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e",
			RecipientAddress: demoEVMRecipient,
		},
	},
	"exactUsdc": {
		Name:        "exactUsdc",
		Description: "Onramp Exact 1 USDC",
		Form: Form{
			Referrer:         demoReferrer,
			ReferrerLogo:     demoReferrerLogo,
			CallbackURL:      demoCallbackURL,
			AmountUsdc:       "1000000",
			RecipientAddress: demoEVMRecipient,
		},
	},
}

// presetOrder matches the order the demo page shows its example buttons.
var presetOrder = []string{"baseEth", "solana", "mainnetEth", "avalancheUsdc", "exactUsdc"}

// Preset returns a copy of the named example form.
func Preset(name string) (Form, error) {
	p, ok := presets[name]
	if !ok {
		names := lo.Keys(presets)
		sort.Strings(names)
		return Form{}, fmt.Errorf("unknown preset %q (available: %v)", name, names)
	}
	return p.Form, nil
}

// Presets lists every example in display order.
func Presets() []PresetInfo {
	return lo.Map(presetOrder, func(name string, _ int) PresetInfo {
		return presets[name]
	})
}
