package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
)

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(ctx),
		newRegisterCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
	}
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var username, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				pw, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = pw
			}
			return ctx.withRuntime(cmd, func(c context.Context, rt *runtime) error {
				creds := domain.Credentials{Username: strings.TrimSpace(username), Password: password}
				if err := rt.session.Login(c, rt.client, creds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var req domain.RegisterRequest
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				pw, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				req.Password = pw
			}
			req.Username = strings.TrimSpace(req.Username)
			req.Email = strings.TrimSpace(req.Email)
			return ctx.withRuntime(cmd, func(c context.Context, rt *runtime) error {
				user, err := rt.session.Register(c, rt.client, req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, user)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s <%s> and logged in\n", user.Username, user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Account username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(c context.Context, rt *runtime) error {
				if !rt.session.Authenticated() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				if err := rt.session.Logout(c); err != nil {
					return err
				}
				if _, err := rt.store.ClearStudyPositions(c); err != nil {
					rt.logger.Warn("failed to clear study positions", logging.Error(err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

type whoami struct {
	Username  string     `json:"username"`
	APIURL    string     `json:"api_url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				info := whoami{Username: rt.session.Username(), APIURL: rt.client.BaseURL()}
				if claims, err := rt.session.Claims(); err == nil {
					if !claims.ExpiresAt.IsZero() {
						exp := claims.ExpiresAt
						info.ExpiresAt = &exp
					}
					info.Expired = claims.Expired(time.Now())
					if info.Username == "" {
						info.Username = claims.Subject
					}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, info)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("User", statusInfo, info.Username, colorize))
				fmt.Fprintln(out, renderStatusLine("Backend", statusInfo, info.APIURL, colorize))
				switch {
				case info.ExpiresAt == nil:
					fmt.Fprintln(out, renderStatusLine("Token", statusWarn, "no expiry claim", colorize))
				case info.Expired:
					fmt.Fprintln(out, renderStatusLine("Token", statusError, "expired "+formatWhen(*info.ExpiresAt), colorize))
				default:
					fmt.Fprintln(out, renderStatusLine("Token", statusOK, "expires "+formatWhen(*info.ExpiresAt), colorize))
				}
				return nil
			})
		},
	}
}

func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
