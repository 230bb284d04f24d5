package commands

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/pwgen/internal/config"
	"github.com/systmms/pwgen/internal/pwgen"
)

func TestASCIICommand_SyllableHelpMatchesCatalog(t *testing.T) {
	t.Parallel()

	var syllables *pwgen.Class
	for _, c := range pwgen.Catalog() {
		if c.ID == pwgen.Syllables {
			c := c
			syllables = &c
		}
	}
	require.NotNil(t, syllables)
	require.True(t, syllables.TwoStage())

	shortest, longest := pwgen.MaxComponent+1, 0
	for _, first := range syllables.Primary {
		if first == "" {
			continue
		}
		for _, second := range syllables.Secondary {
			if second == "" {
				continue
			}
			n := len(first) + len(second)
			shortest = min(shortest, n)
			longest = max(longest, n)
		}
	}

	help := NewASCIICommand(&config.Config{}).Long
	assert.Contains(t, help, fmt.Sprintf("y    %d-%d letter syllables", shortest, longest))
}
