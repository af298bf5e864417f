package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/config"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// profileLoadedMsg carries the fetched profile
type profileLoadedMsg struct {
	profile models.Profile
	err     error
}

// ProfileModel shows what the service has remembered about the user.
type ProfileModel struct {
	client  api.LuminaClientInterface
	timeout time.Duration

	spinner spinner.Model
	loading bool
	profile models.Profile
	err     error

	width  int
	height int
}

// NewProfileModel creates the profile surface
func NewProfileModel(client api.LuminaClientInterface, cfg config.Config) ProfileModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return ProfileModel{
		client:  client,
		timeout: cfg.RequestTimeout(),
		spinner: s,
		loading: true,
	}
}

// Init starts the fetch
func (m ProfileModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadProfile())
}

// loadProfile fetches the profile facts
func (m ProfileModel) loadProfile() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		profile, err := client.FetchProfile(ctx)
		return profileLoadedMsg{profile: profile, err: err}
	}
}

// Update handles messages and updates the model
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.profile = msg.profile
			m.err = nil
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			return m, func() tea.Msg { return closeProfileMsg{} }
		case "r":
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.loadProfile())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the profile surface
func (m ProfileModel) View() string {
	var sb strings.Builder

	sb.WriteString(profileTitleStyle.Render("✦ Your profile"))
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("What Lumina has learned about you across conversations"))
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(m.spinner.View())
		sb.WriteString(loadingStyle.Render(" Loading profile..."))
	case m.err != nil:
		sb.WriteString(FormatError(m.err))
	case !m.profile.HasFacts():
		sb.WriteString(hintStyle.Render("Nothing remembered yet. Keep chatting and facts will show up here."))
	default:
		for _, fact := range m.profile.Facts {
			sb.WriteString(factBulletStyle.Render("• "))
			sb.WriteString(factStyle.Render(fact))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n\n")
	shortcuts := []string{
		statusKeyStyle.Render("R") + statusDescStyle.Render(" Refresh"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Back to chat"),
	}
	sb.WriteString(statusBarStyle.Render(strings.Join(shortcuts, "  │  ")))

	panel := profilePanelStyle.Render(sb.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}
