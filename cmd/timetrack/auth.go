// ABOUTME: CLI commands for accounts: signup, login, logout, whoami.
// ABOUTME: Prompts for passwords without echo and prints friendly auth errors.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/timetrack/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	stdin       io.Reader = os.Stdin
	stdinReader *bufio.Reader

	loginGoogle bool
)

var signupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account",
	Long: `Create a timetrack account with email and password.

The password must be at least 6 characters. You are signed in afterwards.

EXAMPLES:

  timetrack signup you@example.com
  timetrack signup                    # Prompts for the email`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{noStorage: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := emailArg(args)
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}

		session, err := authSvc.SignUp(cmd.Context(), email, password)
		if err != nil {
			return authFailure(err)
		}

		color.Green("✓ Account created")
		fmt.Printf("  Signed in as %s\n", session.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login [email]",
	Aliases: []string{"signin"},
	Short:   "Sign in",
	Long: `Sign in with email and password, or with Google.

After 5 failed password attempts the account is locked for 15 minutes.

GOOGLE SIGN-IN:

  Set auth.google_client_id and auth.google_client_secret in
  ~/.config/timetrack/config.json, then run:

    timetrack login --google

  A browser opens for consent; timetrack listens on a local port for the
  redirect.

EXAMPLES:

  timetrack login you@example.com
  timetrack login --google`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{noStorage: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			session *auth.Session
			err     error
		)
		if loginGoogle {
			session, err = authSvc.SignInWithGoogle(cmd.Context())
		} else {
			var email, password string
			email, err = emailArg(args)
			if err != nil {
				return err
			}
			password, err = readPassword("Password: ")
			if err != nil {
				return err
			}
			session, err = authSvc.SignIn(cmd.Context(), email, password)
		}
		if err != nil {
			return authFailure(err)
		}

		color.Green("✓ Signed in as %s", session.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Aliases:     []string{"signout"},
	Short:       "Sign out",
	Annotations: map[string]string{noStorage: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authSvc.SignOut(cmd.Context()); err != nil {
			return authFailure(err)
		}
		color.Yellow("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the signed-in account",
	Annotations: map[string]string{noStorage: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := authSvc.Current(cmd.Context())
		if err != nil {
			return err
		}
		if !session.Valid() {
			fmt.Println("Not signed in.")
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Println(session.Email)
		fmt.Printf("  %s %s\n", faint.Sprint("uid:"), session.UID)
		fmt.Printf("  %s %s\n", faint.Sprint("expires:"), session.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "sign in with Google")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// authFailure logs the coded error and returns its user-facing message.
func authFailure(err error) error {
	logger.Debug("auth failed", "code", auth.CodeOf(err), "err", err)
	return errors.New(auth.Message(err))
}

func emailArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	fmt.Print("Email: ")
	return readLine()
}

func readLine() (string, error) {
	line, err := readRawLine()
	return strings.TrimSpace(line), err
}

// readRawLine returns the next input line with only its line ending removed.
func readRawLine() (string, error) {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(stdin)
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads without echo from a terminal, else a plain line.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	// Spaces are part of the password.
	return readRawLine()
}
