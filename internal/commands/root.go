// Package commands provides the CLI commands for lumina.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURLFlag string
	verboseFlag bool
	outputFlag  string
	fileFlag    string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lumina [prompt]",
	Short: "Terminal client for the Lumina study companion",
	Long: `lumina is a terminal client for the Lumina study companion service.
Run it without arguments to open the interactive chat, or pass a prompt
for a one-shot answer.

Examples:
  lumina                               Open the interactive chat
  lumina login                         Sign in and store your token
  lumina "Explain survivorship bias"   Ask a single question
  lumina -f notes.md                   Send a prompt read from a file
  cat notes.md | lumina                Send a prompt read from stdin
  lumina sessions list                 List your conversations
  lumina profile                       Show what Lumina remembers about you`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("lumina %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runAsk(string(data))
		}

		// Check for stdin
		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runAsk(string(data))
		}

		// Check for positional argument
		if len(args) > 0 {
			return runAsk(args[0])
		}

		// No input - open the interactive chat
		return runChat()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "",
		"Lumina service URL (overrides config and LUMINA_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false,
		"Write debug logs to the log file")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the reply to a file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the prompt from a file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(configCmd)
}
