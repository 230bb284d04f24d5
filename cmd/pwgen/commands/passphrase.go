package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/pwgen/internal/config"
	"github.com/systmms/pwgen/internal/pwgen"
)

// NewDicewareCommand creates the diceware passphrase command.
func NewDicewareCommand(cfg *config.Config) *cobra.Command {
	return newPassphraseCommand(cfg, "diceware", "Generate a passphrase of N words from the Diceware dictionary",
		`Generate a passphrase of N words drawn uniformly from the Diceware
dictionary (8192 words, 13 bits per word).

The dictionary is read from 'wordlists.diceware' in the configuration file
or from --wordlist.`)
}

// NewSkeyCommand creates the S/Key passphrase command.
func NewSkeyCommand(cfg *config.Config) *cobra.Command {
	return newPassphraseCommand(cfg, "skey", "Generate a passphrase of N words from the S/Key dictionary",
		`Generate a passphrase of N words drawn uniformly from the S/Key
dictionary (2048 words, 11 bits per word).

The dictionary is read from 'wordlists.skey' in the configuration file
or from --wordlist.`)
}

func newPassphraseCommand(cfg *config.Config, name, short, long string) *cobra.Command {
	var (
		enhanced bool
		wordlist string
	)

	cmd := &cobra.Command{
		Use:   name + " N",
		Short: short,
		Long: long + `

With --enhanced one character of every word is replaced by a random symbol
at a random position, adding log2(len(word)) + log2(36) bits per word.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd, cfg, generation{
				strategy:   pwgen.StrategyDiceware,
				enhanced:   enhanced,
				dictionary: name,
				wordlist:   wordlist,
			}, args[0])
		},
	}

	cmd.Flags().BoolVarP(&enhanced, "enhanced", "e", false, "Replace one character per word with a random symbol")
	cmd.Flags().StringVar(&wordlist, "wordlist", "", "Word list file (overrides the configuration)")

	return cmd
}
