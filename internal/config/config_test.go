package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/fixedpool"
)

func Test_Load_Defaults(t *testing.T) {
	s, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "64KiB", s.Pool.Size)
	assert.Equal(t, "heap", s.Pool.Backing)
	assert.Equal(t, "identity", s.Pool.TypeCheck)
	assert.True(t, s.Pool.ZeroOnRelease)
	assert.False(t, s.Pool.ZeroAfterFree)
	assert.Equal(t, "info", s.Log.Level)
	assert.Empty(t, s.Metrics.Addr)

	size, err := s.PoolSize()
	require.NoError(t, err)
	assert.Equal(t, 64*1024, size)
}

func Test_Load_Env(t *testing.T) {
	t.Setenv("POOLCTL_POOL_SIZE", "4096")
	t.Setenv("POOLCTL_POOL_TYPE_CHECK", "size")
	t.Setenv("POOLCTL_POOL_ZERO_AFTER_FREE", "true")
	t.Setenv("POOLCTL_METRICS_ADDR", ":9100")

	s, err := Load(viper.New(), "")
	require.NoError(t, err)

	size, err := s.PoolSize()
	require.NoError(t, err)
	assert.Equal(t, 4096, size)
	assert.Equal(t, "size", s.Pool.TypeCheck)
	assert.True(t, s.Pool.ZeroAfterFree)
	assert.Equal(t, ":9100", s.Metrics.Addr)
}

func Test_Load_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poolctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pool:
  size: 1 MiB
  backing: mmap
  dump_on_failure: true
log:
  level: debug
  format: json
`), 0o600))

	s, err := Load(viper.New(), path)
	require.NoError(t, err)

	size, err := s.PoolSize()
	require.NoError(t, err)
	assert.Equal(t, 1<<20, size)
	assert.Equal(t, "mmap", s.Pool.Backing)
	assert.True(t, s.Pool.DumpOnFailure)

	logger, err := s.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func Test_Load_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func Test_Settings_PoolConfig(t *testing.T) {
	s, err := Load(viper.New(), "")
	require.NoError(t, err)
	s.Pool.Backing = "MMAP"
	s.Pool.TypeCheck = "size"
	s.Pool.ZeroOnRelease = false

	logger := logrus.New()
	cfg, err := s.PoolConfig(logger)
	require.NoError(t, err)
	assert.Equal(t, fixedpool.BackingMmap, cfg.Backing)
	assert.Equal(t, fixedpool.TypeCheckSize, cfg.TypeCheck)
	assert.False(t, cfg.ZeroMemoryOnDestruct)
	assert.Same(t, logger, cfg.Logger)
}

func Test_Settings_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		call   func(*Settings) error
	}{
		{
			name:   "backing",
			mutate: func(s *Settings) { s.Pool.Backing = "disk" },
			call:   func(s *Settings) error { _, err := s.PoolConfig(nil); return err },
		},
		{
			name:   "type check",
			mutate: func(s *Settings) { s.Pool.TypeCheck = "loose" },
			call:   func(s *Settings) error { _, err := s.PoolConfig(nil); return err },
		},
		{
			name:   "size",
			mutate: func(s *Settings) { s.Pool.Size = "lots" },
			call:   func(s *Settings) error { _, err := s.PoolSize(); return err },
		},
		{
			name:   "log level",
			mutate: func(s *Settings) { s.Log.Level = "chatty" },
			call:   func(s *Settings) error { _, err := s.NewLogger(); return err },
		},
		{
			name:   "log format",
			mutate: func(s *Settings) { s.Log.Format = "xml" },
			call:   func(s *Settings) error { _, err := s.NewLogger(); return err },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(viper.New(), "")
			require.NoError(t, err)
			tt.mutate(s)
			assert.Error(t, tt.call(s))
		})
	}
}
