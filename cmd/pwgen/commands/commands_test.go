package commands

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/systmms/pwgen/internal/session"
)

func TestMain(m *testing.M) {
	// Hardening disables core dumps for the whole test binary and signal
	// handlers would outlive each test; neither is under test here.
	harden = func() ([]error, error) { return nil, nil }
	catchSignal = func(*session.Session) {}
	memlockLimit = func() (uint64, bool) { return 64 << 20, true }

	os.Exit(m.Run())
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}

// parseFramed splits framed generator output into the secret and its entropy.
func parseFramed(t *testing.T, out string) (string, float64) {
	t.Helper()

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3, "output: %q", out)
	require.Equal(t, strings.TrimSuffix(frame, "\n"), lines[0])
	require.Equal(t, strings.TrimSuffix(frame, "\n"), lines[2])

	idx := strings.LastIndex(lines[1], " ;ENTROPY=")
	require.NotEqual(t, -1, idx, "missing entropy marker in %q", lines[1])
	secret := lines[1][:idx]

	value := strings.TrimSuffix(lines[1][idx+len(" ;ENTROPY="):], " bits")
	entropy, err := strconv.ParseFloat(value, 64)
	require.NoError(t, err)
	return secret, entropy
}
