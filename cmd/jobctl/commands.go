package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/justsurfingit/jobx/internal/app"
	"github.com/justsurfingit/jobx/internal/auth"
	"github.com/justsurfingit/jobx/internal/config"
	"github.com/justsurfingit/jobx/internal/database"
	"github.com/justsurfingit/jobx/internal/logging"
	"github.com/spf13/cobra"
)

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	return cfg, log, nil
}

// withContainer builds the services, runs fn and flushes queued mail.
func withContainer(parent context.Context, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	runErr := fn(ctx, c)
	cancel()
	c.Close()
	return runErr
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Connect(cmd.Context(), database.Options{
				DSN:             cfg.DatabaseURL,
				MaxOpenConns:    2,
				MaxIdleConns:    1,
				ConnMaxLifetime: time.Minute,
			}, log)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(cmd.Context(), db, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Warn about postings ending tomorrow and delete expired postings once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC 3339: %w", err)
				}
				now = parsed
			}
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				report, err := c.Sweeper.Run(ctx, now)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "warned %d, deleted %d\n", report.Warned, report.Deleted)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "run as if the current time were this RFC 3339 instant")
	return cmd
}

func promoteAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Give an existing account the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				user, err := c.Auth.PromoteAdmin(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now an admin\n", user.ID, user.Email)
				return nil
			})
		},
	}
}

func gmailTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gmail-token",
		Short: "Authorize the Gmail sender account and store its OAuth token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if cfg.GmailCredentialsFile == "" || cfg.GmailTokenFile == "" {
				return errors.New("GMAIL_CREDENTIALS_FILE and GMAIL_TOKEN_FILE must be set")
			}
			url, err := auth.GmailAuthURL(cfg.GmailCredentialsFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open this link, approve access and paste the code:\n%s\n> ", url)

			code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && code == "" {
				return fmt.Errorf("read code: %w", err)
			}
			if err := auth.ExchangeGmailCode(cmd.Context(), cfg.GmailCredentialsFile, cfg.GmailTokenFile, strings.TrimSpace(code)); err != nil {
				return err
			}
			fmt.Fprintf(out, "token saved to %s\n", cfg.GmailTokenFile)
			return nil
		},
	}
}
