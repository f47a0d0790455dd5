package main

import (
	"os"
	"pms/config"
	"pms/helper"
	"pms/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func command(use, short string, run func(cfg *config.Config) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(config.Get())
		},
	}
}

func main() {
	logger.InitLogger()

	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "PMS database migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		command("up", "Apply all pending migrations", helper.Up),
		command("down", "Roll back the last migration", helper.Down),
		command("step-up", "Apply the next pending migration", helper.StepUp),
		command("drop", "Roll back every migration", helper.Drop),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
}
