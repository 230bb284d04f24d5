package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/pwgen/internal/config"
	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/metrics"
	"github.com/systmms/pwgen/internal/pwgen"
	"github.com/systmms/pwgen/internal/secure"
	"github.com/systmms/pwgen/internal/session"
	"github.com/systmms/pwgen/pkg/csprng"
)

const frame = "----------------\n"

// Overridable in tests.
var (
	harden      = secure.Harden
	newRegistry = csprng.NewRegistry
	catchSignal = func(sess *session.Session) {
		memguard.CatchSignal(func(os.Signal) { _ = sess.Close() }, os.Interrupt, syscall.SIGTERM)
	}
)

// generation describes one request as parsed from the command line.
type generation struct {
	strategy pwgen.Strategy
	enhanced bool
	classes  pwgen.ClassSet
	// dictionary names the configured word list for passphrase modes.
	dictionary string
	wordlist   string
}

// parseCount parses the N argument shared by every generation command.
func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, pwerrors.UserError{
			Message:    fmt.Sprintf("N must be an integer > 0, got %q", arg),
			Suggestion: "Pass a positive count, for example 'pwgen diceware 6'",
			Err:        pwerrors.ErrInvalidRequest,
		}
	}
	return n, nil
}

// runGeneration loads configuration, opens a session, generates one secret
// and writes it, framed, to the command's output.
func runGeneration(cmd *cobra.Command, cfg *config.Config, gen generation, arg string) error {
	count, err := parseCount(arg)
	if err != nil {
		return err
	}

	if err := cfg.Load(); err != nil {
		return err
	}

	warnings, err := harden()
	for _, w := range warnings {
		cfg.Logger.Warn("%v", w)
	}
	if err != nil {
		return err
	}

	req := pwgen.Request{
		Strategy: gen.strategy,
		Count:    count,
		Enhanced: gen.enhanced,
		Classes:  gen.classes,
	}
	if gen.strategy == pwgen.StrategyDiceware {
		dict, err := loadDictionary(cfg, gen)
		if err != nil {
			return err
		}
		req.Dictionary = dict
	}

	backend, err := newRegistry().Get(cfg.Definition.Backend)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	defer exportMetrics(cfg, recorder)

	sess, err := session.Open(session.Options{
		Backend: backend,
		Pages:   cfg.Definition.Arena.Pages,
		Logger:  cfg.Logger,
	})
	if err != nil {
		recorder.RecordFailure(gen.strategy, err)
		return err
	}
	catchSignal(sess)
	recorder.RecordArena(sess.Arena().Size(), sess.Arena().Locked())

	err = sess.GenerateFunc(req, func(res pwgen.Result) error {
		if err := writeFramed(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		recorder.RecordGeneration(gen.strategy, sess.Backend(), res.Entropy)
		return nil
	})
	recorder.RecordStats(sess.Stats())
	if err != nil {
		recorder.RecordFailure(gen.strategy, err)
		return errors.Join(err, sess.Close())
	}

	return sess.Close()
}

func loadDictionary(cfg *config.Config, gen generation) (*pwgen.WordList, error) {
	path := gen.wordlist
	if path == "" {
		var err error
		if path, err = cfg.Wordlist(gen.dictionary); err != nil {
			return nil, err
		}
	}

	dict, err := pwgen.LoadWordList(gen.dictionary, path)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("Loaded %d words from %s", dict.Size(), path)
	return dict, nil
}

// writeFramed prints the secret between separator lines. The secret bytes are
// written directly so no heap string copy of them is made.
func writeFramed(w io.Writer, res pwgen.Result) error {
	if _, err := io.WriteString(w, frame); err != nil {
		return err
	}
	if _, err := w.Write(res.Secret); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, " ;ENTROPY=%.2f bits\n", res.Entropy); err != nil {
		return err
	}
	_, err := io.WriteString(w, frame)
	return err
}

func exportMetrics(cfg *config.Config, recorder *metrics.Recorder) {
	if cfg.Definition == nil || cfg.Definition.Metrics.Textfile == "" {
		return
	}
	if err := recorder.WriteTextfile(cfg.Definition.Metrics.Textfile); err != nil {
		cfg.Logger.Warn("Failed to write metrics to %s: %v", cfg.Definition.Metrics.Textfile, err)
		return
	}
	cfg.Logger.Debug("Wrote metrics to %s", cfg.Definition.Metrics.Textfile)
}
