package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/fixedpool"
)

func TestNewSession(t *testing.T) {
	t.Setenv("POOLCTL_POOL_SIZE", "2KiB")
	t.Setenv("POOLCTL_LOG_LEVEL", "warn")

	s, err := newSession()
	require.NoError(t, err)
	defer s.close()

	assert.Equal(t, 2048, s.pool.MaxSize())
	_, err = fixedpool.SafeAlloc(s.pool, int64(1))
	assert.NoError(t, err)
}

func TestNewSessionInvalid(t *testing.T) {
	t.Setenv("POOLCTL_POOL_BACKING", "tape")

	_, err := newSession()
	assert.ErrorContains(t, err, "tape")
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"shell", "run", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
