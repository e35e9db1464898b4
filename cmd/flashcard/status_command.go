package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/preflight"
)

type statusReport struct {
	ConfigPath string             `json:"config_path"`
	Checks     []preflight.Result `json:"checks"`
	Username   string             `json:"username,omitempty"`
	Expired    bool               `json:"expired,omitempty"`
	Quota      string             `json:"quota,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check local directories, the backend and the login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				ConfigPath: ctx.configPath,
				Checks:     preflight.RunAll(cmd.Context(), cfg, nil),
			}
			backendUp := preflight.Passed(report.Checks)

			err = ctx.withRuntime(cmd, func(c context.Context, rt *runtime) error {
				if !rt.session.Authenticated() {
					return nil
				}
				report.Username = rt.session.Username()
				if claims, err := rt.session.Claims(); err == nil {
					report.Expired = claims.Expired(time.Now())
				}
				if backendUp && !report.Expired {
					if quota, err := rt.svc.StorageQuota(c); err == nil {
						report.Quota = formatQuota(quota)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printSectionHeader(out, "Checks", colorize)
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, report.ConfigPath, colorize))
			for _, r := range report.Checks {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			fmt.Fprintln(out)
			printSectionHeader(out, "Account", colorize)
			switch {
			case report.Username == "":
				fmt.Fprintln(out, renderStatusLine("Login", statusWarn, "not logged in (run 'flashcard login')", colorize))
			case report.Expired:
				fmt.Fprintln(out, renderStatusLine("Login", statusError, report.Username+" (token expired)", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Login", statusOK, report.Username, colorize))
			}
			if report.Quota != "" {
				fmt.Fprintln(out, renderStatusLine("Quota", statusInfo, report.Quota, colorize))
			}
			return nil
		},
	}
}
