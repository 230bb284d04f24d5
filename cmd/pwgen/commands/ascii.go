package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/pwgen/internal/config"
	"github.com/systmms/pwgen/internal/pwgen"
)

// NewASCIICommand creates the character-class password command.
func NewASCIICommand(cfg *config.Config) *cobra.Command {
	var classes string

	cmd := &cobra.Command{
		Use:   "ascii N",
		Short: "Generate N random elements from the selected character classes",
		Long: `Generate a password of N random elements. Each letter of --classes adds
one kind of element:

  a    alphanumeric characters
  d    decimal digits
  h    hexadecimal digits
  s    special characters
  y    2-3 letter syllables

Overlapping classes are reduced so the entropy estimate stays correct:
alphanumeric absorbs digits and hex, hex absorbs digits, and syllables
combined with any of a/d/h keep syllables plus decimal digits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := pwgen.ParseClasses(classes)
			if err != nil {
				return err
			}
			return runGeneration(cmd, cfg, generation{
				strategy: pwgen.StrategyASCII,
				classes:  set,
			}, args[0])
		},
	}

	cmd.Flags().StringVarP(&classes, "classes", "c", "a", "Character classes to draw from (any of adhsy)")

	return cmd
}
