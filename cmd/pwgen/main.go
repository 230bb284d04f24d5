package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/pwgen/cmd/pwgen/commands"
	"github.com/systmms/pwgen/internal/config"
	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	memguard.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", pwerrors.Explain(err))
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "pwgen",
		Short: "Generate passphrases and random tokens in locked memory",
		Long: `pwgen generates diceware and S/Key passphrases, base64 and koremutake
tokens, and character-class passwords. Every secret is produced inside a
locked, guarded memory region that is zeroed before the program exits.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Required = cmd.Flags().Changed("config")
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewDicewareCommand(cfg),
		commands.NewSkeyCommand(cfg),
		commands.NewRawCommand(cfg),
		commands.NewKoremutakeCommand(cfg),
		commands.NewASCIICommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(),
	)

	return rootCmd.Execute()
}
