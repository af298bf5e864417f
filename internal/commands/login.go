package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmailFlag string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store your token",
	Long: `Sign in to the Lumina service.

Prompts for the email and password unless --email is given, exchanges
them for a bearer token, and stores it under ~/.lumina for later
commands. The password is never stored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin()
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmailFlag, "email", "e", "", "Account email")
}

func runLogin() error {
	deps, err := buildDependencies(false)
	if err != nil {
		return err
	}
	defer deps.Close()

	email := strings.TrimSpace(loginEmailFlag)
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	spin := newSpinner("Signing in")
	spin.start()

	token, err := deps.Client.Login(ctx, email, password)
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Sign-in failed"))
		return fmt.Errorf("sign-in failed: %w", err)
	}

	deps.Creds.Set(token)
	if err := deps.Store.Save(token); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to store token: %w", err)
	}

	spin.stopWithSuccess(fmt.Sprintf("Signed in as %s", email))
	return nil
}

// promptLine reads one trimmed line from stdin
func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read when input is piped.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(label)
	}

	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
