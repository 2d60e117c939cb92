package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger zerolog.Logger

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mabsim",
		Short: "Simulate and compare multi-armed bandit policies",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		CompareCommand(),
	)

	return cmd
}
