package cmd

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zkp2p/peer-cli/internal/config"
	"github.com/zkp2p/peer-cli/internal/handshake"
	"github.com/zkp2p/peer-cli/pkg/extension"
	"github.com/zkp2p/peer-cli/pkg/util"
)

// Metadata describes the running binary.
type Metadata struct {
	Version string
	Commit  string
	Date    string
}

var metadata = Metadata{Version: "dev", Commit: "none", Date: "unknown"}

var rootCmd = &cobra.Command{
	Use:   "peer",
	Short: "Connect to the Peer extension and start onramps from the terminal",
	Long: `peer drives the PeerAuth browser extension through its local bridge.

It detects the extension, asks for a connection when needed and hands an
onramp request to the extension once the connection is approved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			pterm.EnableDebugMessages()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug diagnostics")
	rootCmd.PersistentFlags().String("bridge-url", "", "Extension bridge URL (overrides "+config.EnvBridgeURL+")")
	rootCmd.PersistentFlags().Bool("strict-status", false, "Treat unrecognized connection statuses as disconnected")

	rootCmd.AddCommand(onrampCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(unpairCmd)
	rootCmd.AddCommand(bridgeCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute(m Metadata) {
	metadata = m
	rootCmd.Version = m.Version

	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(m.Version),
		fang.WithCommit(m.Commit),
	)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves settings with flags taking precedence over the
// environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	config.LoadDotEnv()
	cfg := config.Load()

	if cmd.Flags().Changed("bridge-url") {
		cfg.BridgeURL, _ = cmd.Flags().GetString("bridge-url")
	}
	if cmd.Flags().Changed("strict-status") {
		cfg.StrictStatus, _ = cmd.Flags().GetBool("strict-status")
	}

	if err := cfg.Validate(); err != nil {
		pterm.Error.Println(err.Error())
		return nil, util.CleanedUpError{Err: err}
	}
	return cfg, nil
}

func getBridge(cfg *config.Config) *extension.Bridge {
	return extension.NewBridge(extension.BridgeConfig{
		BaseURL:    cfg.BridgeURL,
		InstallURL: cfg.InstallURL,
		Token:      cfg.Token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	})
}

func detectorFor(ext extension.Extension, cfg *config.Config) handshake.Detector {
	return handshake.Detector{
		Ext:      ext,
		Attempts: cfg.DetectAttempts,
		Delay:    cfg.DetectDelay,
	}
}
