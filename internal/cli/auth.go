package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword prompts on stderr and reads without echo from a terminal, or a
// single line when stdin is piped.
func readPassword(a *app, prompt string) (string, error) {
	fmt.Fprint(a.errOut, prompt)

	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			password, err := a.readPassword(a, "password: ")
			if err != nil {
				return err
			}

			id, err := e.services.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			s, err := SaveSession(id)
			if err != nil {
				return err
			}
			e.logger.Debug().Str("user_id", s.UserID).Msg("session saved")

			if a.jsonOutput() {
				return a.printJSON(map[string]any{
					"user_id":    s.UserID,
					"email":      s.Email,
					"expires_at": s.ExpiresAt,
				})
			}
			fmt.Fprintln(a.out, successStyle.Render("logged in as "+s.Email))
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintln(a.out, dimStyle.Render("session expires "+relTime(s.ExpiresAt, a.now())))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, dimStyle.Render("logged out"))
			return nil
		},
	}
}

func newResetPasswordCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			if err := e.services.Auth.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}

			fmt.Fprintln(a.out, successStyle.Render("if "+email+" has an account, a reset link is on its way"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.MarkFlagRequired("email")
	return cmd
}
