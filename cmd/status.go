package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zkp2p/peer-cli/internal/handshake"
	"github.com/zkp2p/peer-cli/pkg/extension"
	"github.com/zkp2p/peer-cli/pkg/util"
)

// StatusCmd reports whether the extension is installed and connected.
type StatusCmd struct {
	ext      extension.Extension
	policy   extension.UnknownStatusPolicy
	detector handshake.Detector
	poller   handshake.Poller
}

// StatusInput holds input for the status command.
type StatusInput struct {
	Watch  bool
	Output string
}

type statusReport struct {
	handshake.Snapshot
	Connection       string `json:"connection"`
	Version          string `json:"version,omitempty"`
	VersionSupported *bool  `json:"version_supported,omitempty"`
	CLIVersion       string `json:"cli_version"`
}

// Run detects the extension and takes one status reading, or keeps polling
// until ctx is done when watching.
func (c StatusCmd) Run(ctx context.Context, in StatusInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	jsonOutput := in.Output == "json"

	detector := c.detector
	detector.Ext = c.ext
	poller := c.poller
	poller.Ext = c.ext
	session := handshake.NewSession(c.policy)
	if !jsonOutput {
		session.OnUnknownStatus(unknownStatusWarner(c.policy))
	}

	if in.Watch {
		if jsonOutput {
			session.OnChange(func(snap handshake.Snapshot) {
				_ = util.PrintPrettyJSON(c.report(snap))
			})
		} else {
			session.OnChange(func(snap handshake.Snapshot) {
				pterm.Printf("%s  %s\n", pterm.Gray(time.Now().Format(time.TimeOnly)), c.summaryLine(snap))
			})
			pterm.Info.Println("Watching extension status, press Ctrl+C to stop")
		}
		err := session.Watch(ctx, detector, poller)
		if err != nil && ctx.Err() != nil {
			return nil
		}
		if err == nil && session.ExtensionState() == handshake.StateNotInstalled {
			pterm.Warning.Println("Peer extension not detected; run 'peer onramp' to open the install page")
		}
		return err
	}

	if _, err := session.Detect(ctx, detector); err != nil {
		return err
	}
	if session.ExtensionState() == handshake.StateInstalled {
		poller.Once(ctx, session)
	}

	report := c.report(session.Snapshot())
	if jsonOutput {
		return util.PrintPrettyJSON(report)
	}
	c.printReport(report)
	return nil
}

func (c StatusCmd) report(snap handshake.Snapshot) statusReport {
	r := statusReport{
		Snapshot:   snap,
		Connection: extension.Classify(snap.ConnectionStatus, c.policy).String(),
		CLIVersion: metadata.Version,
	}
	if v, ok := c.ext.(interface{ Version() string }); ok && snap.ExtensionState == handshake.StateInstalled {
		r.Version = v.Version()
		if supported, err := extension.CheckVersion(r.Version); err == nil && r.Version != "" {
			r.VersionSupported = &supported
		}
	}
	return r
}

// unknownStatusWarner flags each unrecognized connection status once.
func unknownStatusWarner(policy extension.UnknownStatusPolicy) func(extension.ConnectionStatus) {
	var mu sync.Mutex
	seen := map[extension.ConnectionStatus]bool{}
	return func(status extension.ConnectionStatus) {
		mu.Lock()
		defer mu.Unlock()
		if seen[status] {
			return
		}
		seen[status] = true
		if policy == extension.Strict {
			pterm.Debug.Printf("unrecognized connection status %q, treating as disconnected\n", status)
			return
		}
		pterm.Warning.Printf("Unrecognized connection status %q, treating it as connected\n", status)
	}
}

var stateDisplay = map[handshake.ExtensionState]struct {
	label string
	rgb   pterm.RGB
}{
	handshake.StateInstalled:    {label: "Installed", rgb: pterm.NewRGB(31, 163, 130)},
	handshake.StateNotInstalled: {label: "Not installed", rgb: pterm.NewRGB(239, 68, 68)},
	handshake.StateChecking:     {label: "Checking", rgb: pterm.NewRGB(36, 99, 235)},
	handshake.StateUnknown:      {label: "Unknown", rgb: pterm.NewRGB(128, 128, 128)},
}

func getStateDisplay(state handshake.ExtensionState) (string, pterm.RGB) {
	if d, ok := stateDisplay[state]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

var connectionColors = map[extension.Connection]string{
	extension.Connected:    "#1FA382",
	extension.Pending:      "#F59E0B",
	extension.Disconnected: "#808080",
}

// connectionBadge renders the connection status as a colored pill. Raw
// statuses outside the known set keep their own text.
func connectionBadge(status extension.ConnectionStatus, policy extension.UnknownStatusPolicy) string {
	conn := extension.Classify(status, policy)
	text := string(status)
	if text == "" {
		text = "none"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(connectionColors[conn])).
		Render(text)
}

func (c StatusCmd) summaryLine(snap handshake.Snapshot) string {
	label, rgb := getStateDisplay(snap.ExtensionState)
	line := fmt.Sprintf("%s %s", coloredDot(rgb), label)
	if snap.ExtensionState == handshake.StateInstalled {
		line += "  " + connectionBadge(snap.ConnectionStatus, c.policy)
	}
	return line + "  " + pterm.Bold.Sprint(snap.ButtonLabel)
}

func (c StatusCmd) printReport(r statusReport) {
	label, rgb := getStateDisplay(r.ExtensionState)
	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Extension", coloredDot(rgb) + " " + label})
	if r.ExtensionState == handshake.StateInstalled {
		version := util.OrDash(r.Version)
		if r.VersionSupported != nil && !*r.VersionSupported {
			version += fmt.Sprintf(" (below %s)", extension.MinSupportedVersion)
		}
		rows = append(rows, []string{"Version", version})
		rows = append(rows, []string{"Connection", connectionBadge(r.ConnectionStatus, c.policy)})
	}
	rows = append(rows, []string{"Action", r.ButtonLabel})
	PrintTableNoPad(rows, true)

	if r.VersionSupported != nil && !*r.VersionSupported {
		pterm.Warning.Printf("Extension version %s is older than %s; please update it\n", r.Version, extension.MinSupportedVersion)
	}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the Peer extension is installed and connected",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("output", "o", "", "Output format (json)")
	statusCmd.Flags().BoolP("watch", "w", false, "Keep polling and print every change until interrupted")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")

	ctx := cmd.Context()
	if watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	bridge := getBridge(cfg)
	c := StatusCmd{
		ext:      bridge,
		policy:   cfg.Policy(),
		detector: detectorFor(bridge, cfg),
		poller:   handshake.Poller{Ext: bridge, Interval: cfg.StatusInterval},
	}
	return c.Run(ctx, StatusInput{Watch: watch, Output: output})
}
