package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/migrate"
)

type preRun func(cmd *cobra.Command, args []string) error

func newUpCommand(a *app, load preRun) *cobra.Command {
	return &cobra.Command{
		Use:     "up",
		Short:   "Apply every pending migration",
		PreRunE: load,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			client, err := db.New(a.ctx, a.cfg.DB, a.logg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, client.Close()) }()

			sqlDB, err := client.SQL()
			if err != nil {
				return err
			}
			applied, err := migrate.Ensure(a.ctx, sqlDB)
			for _, m := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d %s (%s)\n", m.Version, m.Source, m.Duration.Round(time.Millisecond))
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			}
			return nil
		},
	}
}

func newStatusCommand(a *app, load preRun) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "List migrations and whether they are applied",
		PreRunE: load,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			client, err := db.New(a.ctx, a.cfg.DB, a.logg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, client.Close()) }()

			sqlDB, err := client.SQL()
			if err != nil {
				return err
			}
			entries, err := migrate.Status(a.ctx, sqlDB)
			if err != nil {
				return err
			}
			for _, e := range entries {
				state := "pending"
				if e.Applied {
					state = "applied " + e.AppliedAt.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", e.Version, e.Source, state)
			}
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check migration files are additive and well formed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if dir == "" {
				err = migrate.ValidateFS(migrate.Migrations())
			} else {
				err = migrate.ValidateDir(dir)
			}
			if err != nil {
				return fmt.Errorf("migration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to the embedded set)")
	return cmd
}

func newCreateCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Write an empty SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.CreateSQLMigration(dir, args[0], time.Now().UTC())
			if err != nil {
				return fmt.Errorf("create migration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", migrate.DefaultDir, "migrations directory")
	return cmd
}
