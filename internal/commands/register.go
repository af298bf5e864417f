package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	registerEmailFlag string
	registerNameFlag  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Lumina account",
	Long: `Create a new account on the Lumina service and sign in with it.

Prompts for anything not given by flags. A duplicate email is reported
by the service and nothing is stored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister()
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerEmailFlag, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&registerNameFlag, "name", "n", "", "Full name")
}

func runRegister() error {
	deps, err := buildDependencies(false)
	if err != nil {
		return err
	}
	defer deps.Close()

	email := strings.TrimSpace(registerEmailFlag)
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	name := strings.TrimSpace(registerNameFlag)
	if name == "" {
		name, err = promptLine("Full name: ")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	spin := newSpinner("Creating your account")
	spin.start()

	user, err := deps.Client.Register(ctx, email, password, name)
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Registration failed"))
		return fmt.Errorf("registration failed: %w", err)
	}

	// Sign straight in with the new credentials
	token, err := deps.Client.Login(ctx, email, password)
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Account created but sign-in failed"))
		return fmt.Errorf("sign-in after registration failed: %w", err)
	}

	deps.Creds.Set(token)
	if err := deps.Store.Save(token); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to store token: %w", err)
	}

	spin.stopWithSuccess(fmt.Sprintf("Welcome, %s", user.DisplayName()))
	return nil
}
