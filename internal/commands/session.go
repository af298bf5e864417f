package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/luminalabs/lumina-cli/internal/chat"
	"github.com/luminalabs/lumina-cli/internal/models"
)

var (
	exportFormatFlag string
	exportOutputFlag string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage your conversations",
	Long: `List, inspect, export and delete your conversations on the service.

Subcommands taking <ref> accept @last, @first, a 1-based position from
the most recent, a session id, or a title substring.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all conversations",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <ref>",
	Short: "Export a conversation as markdown or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsExport,
}

func init() {
	sessionsExportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "markdown",
		"Export format (markdown or json)")
	sessionsExportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "",
		"Write to a file instead of stdout")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
}

// fetchSessions lists the sessions and resolves ref against them. An
// empty ref only fetches.
func fetchSessions(ctx context.Context, deps *Dependencies, ref string) ([]models.Session, string, error) {
	sessions, err := deps.Client.ListChats(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to list sessions"))
		return nil, "", fmt.Errorf("failed to list sessions: %w", err)
	}
	if ref == "" {
		return sessions, "", nil
	}

	id, err := chat.ResolveSessionRef(sessions, ref)
	if err != nil {
		return nil, "", err
	}
	return sessions, id, nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	deps, err := buildDependencies(true)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	sessions, _, err := fetchSessions(ctx, deps, "")
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No conversations yet. Start one with 'lumina chat' or 'lumina ask'.")
		return nil
	}

	return printSessionTable(os.Stdout, sessions)
}

// printSessionTable renders the session list, most recent first, with the
// 1-based positions the <ref> grammar accepts.
func printSessionTable(w io.Writer, sessions []models.Session) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTITLE\tCREATED\tID")
	_, _ = fmt.Fprintln(tw, "-\t-----\t-------\t--")

	for i, s := range sessions {
		created := chat.FormatRelativeTime(s.CreatedAt)
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			i+1, truncate(s.DisplayTitle(), 40), created, s.ID)
	}

	return tw.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	deps, err := buildDependencies(true)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	sessions, id, err := fetchSessions(ctx, deps, args[0])
	if err != nil {
		return err
	}

	messages, err := deps.Client.History(ctx, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to fetch history"))
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	printTranscript(os.Stdout, sessionByID(sessions, id), messages)
	return nil
}

// printTranscript writes a plain-text transcript of one conversation
func printTranscript(w io.Writer, session models.Session, messages []models.Message) {
	fmt.Fprintf(w, "Title: %s\n", session.DisplayTitle())
	if !session.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Messages: %d\n\n", len(messages))

	for i, msg := range messages {
		role := "You"
		if msg.Role == models.RoleModel {
			role = "Lumina"
		}
		fmt.Fprintf(w, "[%d] %s:\n", i+1, role)
		fmt.Fprintf(w, "  %s\n\n", truncate(msg.Content, 2000))
	}
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	deps, err := buildDependencies(true)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	sessions, id, err := fetchSessions(ctx, deps, args[0])
	if err != nil {
		return err
	}

	if err := deps.Client.DeleteChat(ctx, id); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to delete session"))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	printSuccess(fmt.Sprintf("Deleted '%s'", sessionByID(sessions, id).DisplayTitle()))
	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	format, err := chat.ParseExportFormat(exportFormatFlag)
	if err != nil {
		return err
	}

	deps, err := buildDependencies(true)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	sessions, id, err := fetchSessions(ctx, deps, args[0])
	if err != nil {
		return err
	}

	messages, err := deps.Client.History(ctx, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to fetch history"))
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	session := sessionByID(sessions, id)

	var data []byte
	switch format {
	case chat.FormatJSON:
		data, err = chat.ExportJSON(session, messages)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
	default:
		data = []byte(chat.ExportMarkdown(session, messages))
	}

	if exportOutputFlag != "" {
		if err := os.WriteFile(exportOutputFlag, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		printSuccess(fmt.Sprintf("Exported to %s", exportOutputFlag))
		return nil
	}

	fmt.Print(string(data))
	return nil
}

// sessionByID finds a session in a fetched list. The zero value stands
// in when the list and the id disagree, which only happens if another
// client deleted it mid-command.
func sessionByID(sessions []models.Session, id string) models.Session {
	for _, s := range sessions {
		if s.ID == id {
			return s
		}
	}
	return models.Session{ID: id}
}
