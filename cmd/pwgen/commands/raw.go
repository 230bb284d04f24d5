package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/pwgen/internal/config"
	"github.com/systmms/pwgen/internal/pwgen"
)

// NewRawCommand creates the base64 token command.
func NewRawCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "raw N",
		Short: "Output a base64 encoded string of N random bits",
		Long: `Output N random bits, rounded up to whole bytes, as a padded base64
string. The reported entropy is 8 bits per byte drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd, cfg, generation{strategy: pwgen.StrategyRaw}, args[0])
		},
	}
}

// NewKoremutakeCommand creates the pronounceable token command.
func NewKoremutakeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "koremutake N",
		Short: "Output a koremutake encoding of N random bits",
		Long: `Output N random bits, rounded up to whole 7-bit syllables, as a
pronounceable koremutake string. The reported entropy is 7 bits per syllable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd, cfg, generation{strategy: pwgen.StrategyKoremutake}, args[0])
		},
	}
}
