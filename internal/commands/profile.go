package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luminalabs/lumina-cli/internal/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show what Lumina remembers about you",
	Long: `Show your personalization profile: the facts Lumina has picked up
across conversations and uses to tailor its answers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfile()
	},
}

func runProfile() error {
	deps, err := buildDependencies(true)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	profile, err := deps.Client.FetchProfile(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to fetch profile"))
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	printProfile(os.Stdout, profile)
	return nil
}

// printProfile writes the remembered facts as a bulleted list
func printProfile(w io.Writer, profile models.Profile) {
	if !profile.HasFacts() {
		fmt.Fprintln(w, "Nothing remembered yet. Keep chatting and facts will show up here.")
		return
	}

	fmt.Fprintf(w, "Lumina remembers %d thing(s) about you:\n\n", len(profile.Facts))
	for _, fact := range profile.Facts {
		fmt.Fprintf(w, "  • %s\n", fact)
	}
}
