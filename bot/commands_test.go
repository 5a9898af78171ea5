package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range Commands() {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true
		assert.NotEmpty(t, cmd.Description)
	}

	for _, name := range []string{"balance", "coinflip", "roulette", "blackjack", "history", "stats"} {
		assert.True(t, seen[name], "missing command %s", name)
	}
}
