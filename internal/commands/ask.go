package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/luminalabs/lumina-cli/internal/chat"
	"github.com/luminalabs/lumina-cli/internal/models"
	"github.com/luminalabs/lumina-cli/internal/render"
)

var (
	askSessionFlag string
	askCopyFlag    bool
)

// Styles matching the chat TUI
var (
	askLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7aa2f7")).
			Bold(true)

	askBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Foreground(lipgloss.Color("#c0caf5")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Ask a single question",
	Long: `Send one prompt and print the reply.

The exchange lands in a new conversation unless --session picks an
existing one. Session references accept @last, @first, a 1-based
position, an id, or a title substring.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(args[0])
	},
}

func init() {
	askCmd.Flags().StringVarP(&askSessionFlag, "session", "s", "",
		"Continue an existing session (@last, @first, position, id, or title)")
	askCmd.Flags().BoolVarP(&askCopyFlag, "copy", "c", false,
		"Copy the reply to the clipboard")
	askCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the reply to a file")
}

// runAsk sends one prompt and prints the reply. Decorated output goes to
// a terminal; when stdout is piped or --output is set only the raw reply
// is written.
func runAsk(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	deps, err := buildDependencies(true)
	if err != nil {
		return err
	}
	defer deps.Close()

	decorated := isStdoutTTY() && outputFlag == ""

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	// Resolve the target session first so a bad reference fails before
	// anything is sent
	sessionID := ""
	if askSessionFlag != "" {
		sessions, err := deps.Client.ListChats(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to list sessions"))
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		sessionID, err = chat.ResolveSessionRef(sessions, askSessionFlag)
		if err != nil {
			return err
		}
	}

	var spin *spinner
	if decorated {
		spin = newSpinner("Lumina is thinking")
		spin.start()
	}

	result, err := sendPrompt(ctx, deps, sessionID, prompt)
	if err != nil {
		if decorated {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Ask failed"))
		}
		return fmt.Errorf("ask failed: %w", err)
	}
	if decorated {
		spin.stopWithSuccess("Done")
	}

	return printReply(deps, result, decorated)
}

// sendPrompt runs one exchange against the service. An empty sessionID
// provisions a session first, the same lazy path the chat surface uses;
// if that session's first send then fails, the session still exists
// server-side and the error reports it.
func sendPrompt(ctx context.Context, deps *Dependencies, sessionID, prompt string) (*models.SendResult, error) {
	if sessionID == "" {
		created, err := deps.Client.CreateChat(ctx, models.DefaultSessionTitle)
		if err != nil {
			return nil, err
		}
		sessionID = created.ID
	}

	return deps.Client.SendMessage(ctx, sessionID, prompt)
}

// printReply writes the reply to stdout, the output file, and the
// clipboard as configured.
func printReply(deps *Dependencies, result *models.SendResult, decorated bool) error {
	text := result.Reply

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		printSuccess(fmt.Sprintf("Reply saved to %s", outputFlag))
		return nil
	}

	if !decorated {
		fmt.Print(text)
		return nil
	}

	if askCopyFlag || deps.Config.CopyToClipboard {
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Fprintln(os.Stderr, cmdDimStyle.Render("⚠ Could not copy to clipboard"))
		} else {
			printSuccess("Copied to clipboard")
		}
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Fprintln(os.Stderr)
	fmt.Println(askLabelStyle.Render("✦ Lumina"))

	opts := render.OptionsFromConfig(&deps.Config, bubbleWidth-4)
	rendered := strings.TrimRight(render.MarkdownOrPlain(text, opts), "\n")
	fmt.Println(askBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}
