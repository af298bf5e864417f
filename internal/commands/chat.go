package commands

import (
	"github.com/spf13/cobra"

	"github.com/luminalabs/lumina-cli/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Open the full-screen chat interface.

Starts on the login form when no token is stored; otherwise goes straight
to your conversations. Press Esc or Ctrl+C to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	// The TUI owns the login flow, so a missing token is fine here
	deps, err := buildDependencies(false)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Run wires the TUI's navigator into the gateway, so a rejected
	// credential during any request lands back on the login surface
	return tui.Run(deps.Gateway, deps.Creds, deps.Store, deps.Config, deps.Logger)
}
