package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
)

var (
	cmdErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	cmdDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	cmdSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
)

// formatErrorMessage formats an error with the context captured by the
// typed error kinds: status, endpoint, field rejections, and a hint for
// the recoverable cases.
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(cmdErrorStyle.Render(fmt.Sprintf("✗ %s: %s", context, apierrors.UserMessage(err))))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(cmdDimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(cmdDimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if fields := apierrors.FieldErrors(err); len(fields) > 0 {
		for field, msg := range fields {
			sb.WriteString(cmdDimStyle.Render(fmt.Sprintf("\n  %s: %s", field, msg)))
		}
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(cmdDimStyle.Render("\n  Hint: Run 'lumina login' to sign in"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(cmdDimStyle.Render("\n  Hint: Check your connection and the configured base URL"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(cmdDimStyle.Render("\n  Hint: The service may be slow right now. Try again"))
	case apierrors.IsDecodeError(err):
		sb.WriteString(cmdDimStyle.Render("\n  Hint: The client and service may be out of step. Check for updates"))
	}

	return sb.String()
}

// printSuccess prints a confirmation line to stderr
func printSuccess(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", cmdSuccessStyle.Bold(true).Render("✓"), cmdSuccessStyle.Render(message))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY reports whether stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// truncate shortens s to maxLen runes, appending an ellipsis when cut
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
