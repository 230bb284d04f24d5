package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/pwgen/internal/config"
	"github.com/systmms/pwgen/internal/pwgen"
	"github.com/systmms/pwgen/internal/secure"
	"github.com/systmms/pwgen/internal/session"
	"github.com/systmms/pwgen/pkg/csprng"
)

// Overridable in tests.
var memlockLimit = secure.MemlockLimit

// CheckResult is one line of the doctor report.
type CheckResult struct {
	Name    string
	Status  string // ok, warn, error
	Message string
}

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check secure memory and generator setup",
		Long: `Verify that pwgen can run securely on this machine.

This command checks:
- Configuration file validity
- Arena sizing against every generator backend
- RLIMIT_MEMLOCK and whether the arena can be locked in memory
- Configured word lists`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg.Logger.Info("Checking pwgen configuration...")
			if err := cfg.Load(); err != nil {
				cfg.Logger.Error("Configuration error: %v", err)
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry := csprng.NewRegistry()
			results := []CheckResult{checkBackend(registry, cfg.Definition.Backend)}

			arenaSize := cfg.Definition.Arena.Pages * secure.PageSize()
			results = append(results, checkBackendsFit(registry, arenaSize)...)
			results = append(results, checkMemlock(arenaSize), checkArenaLock(arenaSize))
			results = append(results, checkWordlists(cfg)...)

			_, _ = fmt.Fprintf(out, "Page size: %d bytes, arena: %d pages (%d bytes) + 1 guard page\n\n",
				secure.PageSize(), cfg.Definition.Arena.Pages, arenaSize)
			displayResults(out, results)

			if verbose {
				_, _ = fmt.Fprintf(out, "\nArena layout for %s:\n", cfg.Definition.Backend)
				if b, err := registry.Get(cfg.Definition.Backend); err == nil {
					state := session.StateSize(b.StateSize())
					_, _ = fmt.Fprintf(out, "  • state:   %d bytes\n", state)
					_, _ = fmt.Fprintf(out, "  • scratch: %d bytes\n", pwgen.ScratchSize)
					_, _ = fmt.Fprintf(out, "  • secret:  %d bytes\n", arenaSize-state-pwgen.ScratchSize)
				}
			}

			failed, warned := 0, 0
			for _, r := range results {
				switch r.Status {
				case "error":
					failed++
				case "warn":
					warned++
				}
			}

			_, _ = fmt.Fprintf(out, "\nSummary: %d checks, %d warnings, %d errors\n", len(results), warned, failed)
			if failed > 0 {
				return fmt.Errorf("%d checks failed", failed)
			}

			cfg.Logger.Info("Ready to generate secrets")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show the arena layout for the configured backend")

	return cmd
}

func checkBackend(registry *csprng.Registry, name string) CheckResult {
	if _, err := registry.Get(name); err != nil {
		return CheckResult{Name: "backend", Status: "error", Message: err.Error()}
	}
	return CheckResult{Name: "backend", Status: "ok", Message: name}
}

func checkBackendsFit(registry *csprng.Registry, arenaSize int) []CheckResult {
	var results []CheckResult
	for _, name := range registry.Names() {
		b, _ := registry.Get(name)
		need := session.MinArenaSize(b.StateSize())
		r := CheckResult{Name: "state:" + name}
		if need > arenaSize {
			r.Status = "error"
			r.Message = fmt.Sprintf("needs %d bytes, arena has %d; raise arena.pages", need, arenaSize)
		} else {
			r.Status = "ok"
			r.Message = fmt.Sprintf("%d byte state fits", b.StateSize())
		}
		results = append(results, r)
	}
	return results
}

func checkMemlock(arenaSize int) CheckResult {
	limit, ok := memlockLimit()
	if !ok {
		return CheckResult{Name: "memlock", Status: "warn", Message: "RLIMIT_MEMLOCK unavailable"}
	}
	if limit < uint64(arenaSize) {
		return CheckResult{
			Name:    "memlock",
			Status:  "warn",
			Message: fmt.Sprintf("limit %d bytes is below the arena size; memory may be swapped", limit),
		}
	}
	return CheckResult{Name: "memlock", Status: "ok", Message: fmt.Sprintf("limit %d bytes", limit)}
}

func checkArenaLock(arenaSize int) CheckResult {
	arena, err := secure.Reserve(arenaSize)
	if err != nil {
		return CheckResult{Name: "arena", Status: "error", Message: err.Error()}
	}
	defer func() { _ = arena.Release() }()

	if reason := arena.Degraded(); reason != nil {
		return CheckResult{Name: "arena", Status: "warn", Message: "using insecure memory: " + reason.Error()}
	}
	return CheckResult{Name: "arena", Status: "ok", Message: "locked with guard page"}
}

func checkWordlists(cfg *config.Config) []CheckResult {
	var results []CheckResult
	for _, name := range []string{"diceware", "skey"} {
		r := CheckResult{Name: "wordlist:" + name}
		path, err := cfg.Wordlist(name)
		if err != nil {
			r.Status = "warn"
			r.Message = "not configured"
			results = append(results, r)
			continue
		}
		dict, err := pwgen.LoadWordList(name, path)
		if err != nil {
			r.Status = "error"
			r.Message = err.Error()
		} else {
			r.Status = "ok"
			r.Message = fmt.Sprintf("%d words from %s", dict.Size(), path)
		}
		results = append(results, r)
	}
	return results
}

// displayResults shows the checks in a formatted table
func displayResults(w io.Writer, results []CheckResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(tw, "CHECK\tSTATUS\tMESSAGE\n")
	_, _ = fmt.Fprintf(tw, "-----\t------\t-------\n")

	for _, r := range results {
		status := r.Status
		switch r.Status {
		case "ok":
			status = "✓ " + status
		case "error":
			status = "✗ " + status
		default:
			status = "⚠ " + status
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, status, r.Message)
	}

	_ = tw.Flush()
}
