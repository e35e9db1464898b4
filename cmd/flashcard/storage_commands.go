package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/services"
	"github.com/amirgolp/flashcard/internal/services/telegram"
)

func newStorageCommand(ctx *commandContext) *cobra.Command {
	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect and configure book storage",
	}

	storageCmd.AddCommand(newStorageShowCommand(ctx))
	storageCmd.AddCommand(newStorageQuotaCommand(ctx))
	storageCmd.AddCommand(newStorageTelegramCommand(ctx))
	storageCmd.AddCommand(newStorageGoogleDriveCommand(ctx))
	storageCmd.AddCommand(newStorageDisconnectCommand(ctx))

	return storageCmd
}

func newStorageShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the connected storage backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				cfg, err := rt.svc.StorageConfig(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, cfg)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if cfg.IsConfigured {
					fmt.Fprintln(out, renderStatusLine("Storage", statusOK, storageLabel(cfg.StorageType), colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine("Storage", statusWarn, "not configured", colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Quota", quotaKind(cfg.Quota), formatQuota(cfg.Quota), colorize))
				fmt.Fprintln(out, renderStatusLine("Tier", statusInfo, orDash(cfg.Quota.SubscriptionTier), colorize))
				return nil
			})
		},
	}
}

func storageLabel(kind string) string {
	switch kind {
	case domain.StorageTelegram:
		return "Telegram"
	case domain.StorageGoogleDrive:
		return "Google Drive"
	default:
		return orDash(kind)
	}
}

func quotaKind(q domain.StorageQuota) statusKind {
	switch {
	case q.FilesExhausted() || q.RemainingBytes() == 0:
		return statusError
	case q.UsedPercent() >= 80:
		return statusWarn
	default:
		return statusOK
	}
}

func newStorageQuotaCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show storage usage against the account limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				quota, err := rt.svc.StorageQuota(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, quota)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderStatusLine("Quota", quotaKind(quota), formatQuota(quota), shouldColorize(out)))
				return nil
			})
		},
	}
}

func newStorageTelegramCommand(ctx *commandContext) *cobra.Command {
	var in domain.TelegramStorageConfig
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Store books through your own Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.BotToken = strings.TrimSpace(in.BotToken)
			in.UserID = strings.TrimSpace(in.UserID)
			if err := domain.Validate(in); err != nil {
				return err
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				out := cmd.OutOrStdout()
				if !noVerify {
					name, err := telegram.Verify(c, in.BotToken, ctx.telegramOptions...)
					if err != nil {
						if hint := services.Hint(err); hint != "" {
							return fmt.Errorf("%w (%s)", err, hint)
						}
						return err
					}
					rt.logger.Info("telegram bot verified", logging.String("bot", name))
					if !ctx.jsonOutput() {
						fmt.Fprintf(out, "Verified bot @%s\n", name)
					}
				}
				res, err := rt.svc.ConfigureTelegram(c, in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, res)
				}
				fmt.Fprintln(out, res.Message)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.BotToken, "token", "", "Bot token from @BotFather")
	cmd.Flags().StringVar(&in.UserID, "user", "", "Your Telegram user id")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip checking the token against the Bot API")
	return cmd
}

func newStorageGoogleDriveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "gdrive",
		Short: "Print the Google Drive authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				auth, err := rt.svc.GoogleDriveAuthURL(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, auth)
				}
				out := cmd.OutOrStdout()
				if auth.Message != "" {
					fmt.Fprintln(out, auth.Message)
				}
				fmt.Fprintln(out, auth.AuthorizationURL)
				return nil
			})
		},
	}
}

func newStorageDisconnectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the storage backend (requires no stored books)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				msg, err := rt.svc.DisconnectStorage(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, msg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg.Text())
				return nil
			})
		},
	}
}
