package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zkp2p/peer-cli/internal/handshake"
	"github.com/zkp2p/peer-cli/pkg/extension"
	"github.com/zkp2p/peer-cli/pkg/onramp"
	"github.com/zkp2p/peer-cli/pkg/util"
)

// OnrampCmd runs the connect-then-onramp flow.
type OnrampCmd struct {
	ext          extension.Extension
	policy       extension.UnknownStatusPolicy
	detector     handshake.Detector
	clock        handshake.Clock
	waitInterval time.Duration
	waitTimeout  time.Duration
}

// OnrampInput holds input for starting an onramp.
type OnrampInput struct {
	Preset string
	// Overrides are applied on top of the preset, keyed by field name.
	Overrides map[string]string
	Output    string
}

type onrampResult struct {
	Outcome    string           `json:"outcome"`
	Params     onramp.Params    `json:"params,omitempty"`
	Warnings   []onramp.Warning `json:"warnings,omitempty"`
	InstallURL string           `json:"install_url,omitempty"`
	Error      string           `json:"error,omitempty"`
}

var phaseText = map[handshake.Phase]string{
	handshake.PhaseCheckingStatus:       "Checking connection status...",
	handshake.PhaseAlreadyConnected:     "Already connected",
	handshake.PhaseRequestingApproval:   "Requesting connection, approve it in the extension...",
	handshake.PhaseWaitingForConnection: "Waiting for the connection to be approved...",
	handshake.PhaseConnected:            "Connected, sending onramp request...",
}

// BuildForm resolves the preset and applies overrides.
func (in OnrampInput) BuildForm() (onramp.Form, error) {
	var form onramp.Form
	if in.Preset != "" {
		preset, err := onramp.Preset(in.Preset)
		if err != nil {
			return onramp.Form{}, err
		}
		form = preset
	}
	for _, name := range onramp.Fields {
		v, ok := in.Overrides[name]
		if !ok {
			continue
		}
		if err := form.Set(name, v); err != nil {
			return onramp.Form{}, err
		}
	}
	return form, nil
}

// Run detects the extension, connects and submits the onramp.
func (c OnrampCmd) Run(ctx context.Context, in OnrampInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	jsonOutput := in.Output == "json"

	form, err := in.BuildForm()
	if err != nil {
		return err
	}
	params := onramp.Build(form)
	warnings := onramp.Lint(params)
	if !jsonOutput {
		for _, w := range warnings {
			pterm.Warning.Println(w.String())
		}
		if len(params) == 0 {
			pterm.Warning.Println("No onramp parameters set; the extension will ask for everything")
		}
	}

	session := handshake.NewSession(c.policy)
	if !jsonOutput {
		session.OnUnknownStatus(unknownStatusWarner(c.policy))
	}
	detector := c.detector
	detector.Ext = c.ext
	if detector.Clock == nil {
		detector.Clock = c.clock
	}

	var spinner *pterm.SpinnerPrinter
	if !jsonOutput {
		spinner, _ = pterm.DefaultSpinner.Start("Checking extension...")
	}
	state, err := session.Detect(ctx, detector)
	if err != nil {
		stopSpinner(spinner)
		return err
	}

	est := &handshake.Establisher{
		Ext:          c.ext,
		Session:      session,
		Clock:        c.clock,
		WaitInterval: c.waitInterval,
		WaitTimeout:  c.waitTimeout,
		OnPhase: func(p handshake.Phase) {
			if text, ok := phaseText[p]; ok && spinner != nil {
				spinner.UpdateText(text)
			}
		},
	}

	var out handshake.Outcome
	if state == handshake.StateNotInstalled {
		out, err = est.OpenInstallPage()
	} else {
		out, err = est.Connect(ctx, form)
	}
	result := onrampResult{Warnings: warnings}
	if err != nil {
		msg := handshake.UserMessage(err)
		if spinner != nil {
			spinner.Fail(msg)
		}
		if jsonOutput {
			result.Outcome = "failed"
			result.Error = msg
			_ = util.PrintPrettyJSON(result)
		}
		return util.CleanedUpError{Err: err}
	}

	result.Outcome = string(out.Kind)
	switch out.Kind {
	case handshake.OutcomeInstallRequired:
		result.InstallURL = installURLOf(c.ext)
		if spinner != nil {
			spinner.Warning("Peer extension not detected")
		}
		if !jsonOutput {
			pterm.Info.Printf("Opened the install page: %s\n", util.OrDash(result.InstallURL))
			pterm.Info.Println("Install the extension, then run this command again.")
		}
	case handshake.OutcomeOnramped:
		result.Params = out.Params
		if spinner != nil {
			spinner.Success("Onramp request sent to the Peer extension")
		}
		if !jsonOutput {
			printParams(out.Params)
		}
	}

	if jsonOutput {
		return util.PrintPrettyJSON(result)
	}
	return nil
}

func printParams(params onramp.Params) {
	if len(params) == 0 {
		return
	}
	rows := pterm.TableData{{"Parameter", "Value"}}
	for _, key := range params.Keys() {
		rows = append(rows, []string{key, params[key]})
	}
	PrintTableNoPad(rows, true)
}

func stopSpinner(s *pterm.SpinnerPrinter) {
	if s != nil {
		_ = s.Stop()
	}
}

func installURLOf(ext extension.Extension) string {
	if b, ok := ext.(interface{ InstallURL() string }); ok {
		return b.InstallURL()
	}
	return ""
}

var onrampCmd = &cobra.Command{
	Use:   "onramp",
	Short: "Connect to the Peer extension and start an onramp",
	Long: `Connect to the Peer extension and start an onramp.

The extension is detected first. If it is not installed the install page is
opened. Otherwise a connection is requested when needed, and once approved the
onramp parameters are handed to the extension. Blank parameters are omitted.

Use --preset to start from one of the example configurations (see
'peer presets'); explicit field flags override preset values.`,
	Example: `  peer onramp --preset baseEth
  peer onramp --referrer "Acme" --input-currency USD --input-amount 25 \
    --to-token 8453:0x833589fcd6edb6e08f4c7c32d4f71b54bda02913`,
	Args: cobra.NoArgs,
	RunE: runOnramp,
}

// fieldFlags maps each onramp field to its flag name.
var fieldFlags = map[string]string{
	onramp.FieldReferrer:         "referrer",
	onramp.FieldReferrerLogo:     "referrer-logo",
	onramp.FieldCallbackURL:      "callback-url",
	onramp.FieldInputCurrency:    "input-currency",
	onramp.FieldInputAmount:      "input-amount",
	onramp.FieldPaymentPlatform:  "payment-platform",
	onramp.FieldAmountUsdc:       "amount-usdc",
	onramp.FieldToToken:          "to-token",
	onramp.FieldRecipientAddress: "recipient-address",
}

var fieldUsage = map[string]string{
	onramp.FieldReferrer:         "Name shown to the user as the requesting app",
	onramp.FieldReferrerLogo:     "URL of the referrer logo",
	onramp.FieldCallbackURL:      "URL to return to after the onramp",
	onramp.FieldInputCurrency:    "Fiat currency code, e.g. USD",
	onramp.FieldInputAmount:      "Fiat amount to spend",
	onramp.FieldPaymentPlatform:  "Payment platform, e.g. venmo",
	onramp.FieldAmountUsdc:       "Exact USDC amount in base units (6 decimals)",
	onramp.FieldToToken:          "Destination token as chainId:tokenAddress",
	onramp.FieldRecipientAddress: "Recipient wallet address",
}

func addFormFlags(fs *pflag.FlagSet) {
	for _, name := range onramp.Fields {
		fs.String(fieldFlags[name], "", fieldUsage[name])
	}
}

// formOverrides collects the field flags the user actually set, so that
// unset flags never clobber preset values.
func formOverrides(fs *pflag.FlagSet) map[string]string {
	out := map[string]string{}
	for _, name := range onramp.Fields {
		flag := fieldFlags[name]
		if fs.Changed(flag) {
			out[name], _ = fs.GetString(flag)
		}
	}
	return out
}

func init() {
	addFormFlags(onrampCmd.Flags())
	onrampCmd.Flags().StringP("preset", "p", "", "Start from an example preset ("+strings.Join(presetNames(), ", ")+")")
	onrampCmd.Flags().StringP("output", "o", "", "Output format (json)")

	_ = onrampCmd.RegisterFlagCompletionFunc("preset", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return presetNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runOnramp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	preset, _ := cmd.Flags().GetString("preset")
	output, _ := cmd.Flags().GetString("output")

	bridge := getBridge(cfg)
	c := OnrampCmd{
		ext:          bridge,
		policy:       cfg.Policy(),
		detector:     detectorFor(bridge, cfg),
		waitInterval: cfg.WaitInterval,
		waitTimeout:  cfg.ConnectTimeout,
	}
	return c.Run(cmd.Context(), OnrampInput{
		Preset:    preset,
		Overrides: formOverrides(cmd.Flags()),
		Output:    output,
	})
}
