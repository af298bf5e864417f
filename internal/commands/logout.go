package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luminalabs/lumina-cli/internal/auth"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogout()
	},
}

func runLogout() error {
	// No client needed: the service keeps no session state to revoke,
	// so signing out is purely removing the local token
	store, err := auth.DefaultStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to remove stored token: %w", err)
	}

	printSuccess("Signed out")
	return nil
}
