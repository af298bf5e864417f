package commands

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinner is the animated progress indicator for non-interactive commands.
// It draws on stderr so stdout stays clean for piped output.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // guards against double-close
}

var spinnerFrameColors = []lipgloss.Color{
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#bb9af7"),
	lipgloss.Color("#9ece6a"),
	lipgloss.Color("#7dcfff"),
}

// newSpinner creates a spinner with the given status message
func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor while animating
		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear the line and restore the cursor
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := spinnerFrameColors[s.frame%len(spinnerFrameColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	msg := lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Render(s.message)

	dots := ""
	for i := 0; i < (s.frame/4)%4; i++ {
		dots += "."
	}

	fmt.Fprintf(os.Stderr, "\r\033[K%s %s%s", spinnerChar, msg, dots)
}

// stopOnce closes the stop channel exactly once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and prints a confirmation line
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	fmt.Fprintf(os.Stderr, "%s %s\n", style.Bold(true).Render("✓"), style.Render(message))
}

// stopWithError stops the spinner, leaving the error line to the caller
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
