package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "ccsteer", cmd.Use)
	assert.Equal(t, "Converge CloudControl infrastructure to declared state", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"plan",
		"config",
		"version",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestRoot_PlanResizeExecutes(t *testing.T) {
	cmd := Root()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{
		"plan", "resize",
		"--current-size", "10", "--current-iops", "30",
		"--size", "100", "--iops", "1000",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "set IOPS 150")
	assert.Contains(t, out.String(), "set size 100GB")
}

func TestRoot_PlanResizeRequiresSizes(t *testing.T) {
	cmd := Root()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"plan", "resize", "--size", "100"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current-size")
}
