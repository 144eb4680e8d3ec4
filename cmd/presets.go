package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zkp2p/peer-cli/pkg/onramp"
	"github.com/zkp2p/peer-cli/pkg/util"
)

// PresetsCmd lists the built-in example forms.
type PresetsCmd struct{}

// PresetsInput holds input for listing presets.
type PresetsInput struct {
	Output string
}

type presetListing struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Params      onramp.Params `json:"params"`
}

// List prints every preset with the parameters it would send.
func (c PresetsCmd) List(in PresetsInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	presets := onramp.Presets()
	if in.Output == "json" {
		return util.PrintPrettyJSON(lo.Map(presets, func(p onramp.PresetInfo, _ int) presetListing {
			return presetListing{Name: p.Name, Description: p.Description, Params: onramp.Build(p.Form)}
		}))
	}

	rows := pterm.TableData{{"Name", "Description", "Destination", "Amount"}}
	for _, p := range presets {
		params := onramp.Build(p.Form)
		amount := util.FirstOrDash(
			lo.Ternary(params[onramp.FieldAmountUsdc] != "", params[onramp.FieldAmountUsdc]+" USDC (base units)", ""),
			lo.Ternary(params[onramp.FieldInputAmount] != "", params[onramp.FieldInputAmount]+" "+params[onramp.FieldInputCurrency], ""),
		)
		rows = append(rows, []string{p.Name, p.Description, util.OrDash(params[onramp.FieldToToken]), amount})
	}
	PrintTableNoPad(rows, true)
	pterm.Info.Println("Run 'peer onramp --preset <name>' to use one")
	return nil
}

func presetNames() []string {
	return lo.Map(onramp.Presets(), func(p onramp.PresetInfo, _ int) string { return p.Name })
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the example onramp presets",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runPresets(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return PresetsCmd{}.List(PresetsInput{Output: output})
}
