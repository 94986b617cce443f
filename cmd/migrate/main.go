package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg  *config.Config
	logg *logger.Logger
	ctx  context.Context
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply and inspect the Fusion schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// up and status need a database, so config is loaded lazily per command.
	loadConfig := func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
		a.logg = logger.New(logger.Options{
			ServiceName: "migrate",
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			WarnStack:   cfg.App.LogWarnStack,
			Console:     cfg.App.ConsoleLogs(),
		})
		a.ctx = a.logg.WithFields(cmd.Context(), map[string]any{"env": cfg.App.Env, "cmd": cmd.Name()})
		return nil
	}

	root.AddCommand(
		newUpCommand(a, loadConfig),
		newStatusCommand(a, loadConfig),
		newValidateCommand(),
		newCreateCommand(),
	)
	return root
}
