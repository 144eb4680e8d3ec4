package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zkp2p/peer-cli/internal/config"
)

// TokenStore persists the bridge pairing token.
type TokenStore interface {
	Save(token string) error
	Delete() (bool, error)
}

type keyringStore struct{}

func (keyringStore) Save(token string) error { return config.SaveToken(token) }
func (keyringStore) Delete() (bool, error)   { return config.DeleteToken() }

// PairCmd manages the pairing token.
type PairCmd struct {
	store TokenStore
}

// Pair stores the token shown by the extension.
func (c PairCmd) Pair(token string) error {
	if err := c.store.Save(token); err != nil {
		return fmt.Errorf("failed to store pairing token: %w", err)
	}
	pterm.Success.Println("Pairing token saved to the system keyring")
	return nil
}

// Unpair removes the stored token.
func (c PairCmd) Unpair() error {
	removed, err := c.store.Delete()
	if err != nil {
		return fmt.Errorf("failed to remove pairing token: %w", err)
	}
	if !removed {
		pterm.Info.Println("No pairing token stored")
		return nil
	}
	pterm.Success.Println("Pairing token removed")
	return nil
}

var pairCmd = &cobra.Command{
	Use:   "pair <token>",
	Short: "Store the pairing token shown by the Peer extension",
	Long: `Store the pairing token shown by the Peer extension.

The token is kept in the system keyring and sent to the bridge with every
request. ` + config.EnvToken + ` takes precedence when set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return PairCmd{store: keyringStore{}}.Pair(args[0])
	},
}

var unpairCmd = &cobra.Command{
	Use:   "unpair",
	Short: "Remove the stored pairing token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PairCmd{store: keyringStore{}}.Unpair()
	},
}
