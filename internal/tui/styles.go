// Package tui provides the terminal user interface for lumina.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorError     lipgloss.Color

	colorText    lipgloss.Color
	colorTextDim lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	// Header panel style
	headerStyle lipgloss.Style

	// Title style for header
	titleStyle lipgloss.Style

	// Subtitle style (user name, active session)
	subtitleStyle lipgloss.Style

	// Hint text style
	hintStyle lipgloss.Style

	// Sidebar panel and items
	sidebarStyle        lipgloss.Style
	sidebarFocusedStyle lipgloss.Style
	sidebarTitleStyle   lipgloss.Style
	itemStyle           lipgloss.Style
	itemSelectedStyle   lipgloss.Style
	itemActiveStyle     lipgloss.Style
	itemTimeStyle       lipgloss.Style
	cursorStyle         lipgloss.Style

	// Messages area panel
	messagesAreaStyle lipgloss.Style

	// User message
	userLabelStyle  lipgloss.Style
	userBubbleStyle lipgloss.Style

	// Assistant message
	assistantLabelStyle  lipgloss.Style
	assistantBubbleStyle lipgloss.Style

	// Input area panel
	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style

	// Loading/spinner style
	loadingStyle lipgloss.Style

	// Status bar styles
	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	// Error and transient feedback
	errorStyle    lipgloss.Style
	feedbackStyle lipgloss.Style

	// Welcome banner (fresh login)
	welcomeStyle lipgloss.Style

	// Form styles (login/register surface)
	formPanelStyle      lipgloss.Style
	formTitleStyle      lipgloss.Style
	formLabelStyle      lipgloss.Style
	formFocusLabelStyle lipgloss.Style
	fieldErrorStyle     lipgloss.Style
	noticeStyle         lipgloss.Style

	// Profile styles
	profilePanelStyle lipgloss.Style
	profileTitleStyle lipgloss.Style
	factStyle         lipgloss.Style
	factBulletStyle   lipgloss.Style
)

// init loads the default theme on package initialization
func init() {
	UpdateTheme(render.ThemeDark)
}

// UpdateTheme refreshes all styles for the named theme. The same name
// drives both the markdown renderer and these chrome styles.
func UpdateTheme(name string) {
	theme := render.TUIThemeFor(name)

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	sidebarStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	sidebarFocusedStyle = sidebarStyle.
		BorderForeground(colorPrimary)

	sidebarTitleStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	itemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	itemSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	itemActiveStyle = lipgloss.NewStyle().
		Foreground(colorPrimary)

	itemTimeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	cursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		PaddingLeft(2)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	formPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 3)

	formTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1)

	formLabelStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	formFocusLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Italic(true)

	profilePanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	profileTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1)

	factStyle = lipgloss.NewStyle().
		Foreground(colorText)

	factBulletStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)
}

// FormatError returns a styled error message with additional context.
// It extracts details from structured error types if available.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %s", apierrors.UserMessage(err))))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if fields := apierrors.FieldErrors(err); len(fields) > 0 {
		for field, msg := range fields {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  %s: %s", field, msg)))
		}
	}

	switch {
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Run 'lumina login' to sign in again"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your connection and the configured base URL"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The service may be slow right now. Try again"))
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
