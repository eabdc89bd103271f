package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	cmd := rootCmd()

	assert.Equal(t, name, cmd.Name)
	assert.NotNil(t, cmd.Action, "running without a subcommand serves")

	names := make([]string, 0, len(cmd.Commands))
	for _, sub := range cmd.Commands {
		names = append(names, sub.Name)
		require.NotNil(t, sub.Action, sub.Name)
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
}
