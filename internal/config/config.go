// Package config loads poolctl settings from defaults, an optional config
// file, POOLCTL_* environment variables and bound command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/pavanmanishd/fixedpool"
)

// EnvPrefix is the prefix of environment variables read by Load.
// POOLCTL_POOL_SIZE sets pool.size.
const EnvPrefix = "POOLCTL"

type Settings struct {
	Pool    PoolSettings    `mapstructure:"pool"`
	Log     LogSettings     `mapstructure:"log"`
	Metrics MetricsSettings `mapstructure:"metrics"`
	Shell   ShellSettings   `mapstructure:"shell"`
}

type PoolSettings struct {
	Size          string `mapstructure:"size"` // e.g. "64KiB", "4096"
	Backing       string `mapstructure:"backing"`
	TypeCheck     string `mapstructure:"type_check"`
	ZeroAfterFree bool   `mapstructure:"zero_after_free"`
	ZeroOnRelease bool   `mapstructure:"zero_on_release"`
	DumpOnFailure bool   `mapstructure:"dump_on_failure"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

type MetricsSettings struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

type ShellSettings struct {
	History string `mapstructure:"history"`
}

// SetDefaults registers the default value of every key on v. Keys without a
// default are not picked up from the environment by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pool.size", "64KiB")
	v.SetDefault("pool.backing", fixedpool.BackingHeap.String())
	v.SetDefault("pool.type_check", fixedpool.TypeCheckIdentity.String())
	v.SetDefault("pool.zero_after_free", false)
	v.SetDefault("pool.zero_on_release", true)
	v.SetDefault("pool.dump_on_failure", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("shell.history", defaultHistory())
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".poolctl_history")
}

// Load reads the settings. file is optional; when set it must exist.
func Load(v *viper.Viper, file string) (*Settings, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &s, nil
}

// PoolSize parses Pool.Size, which accepts plain byte counts and humanized
// sizes such as "64KiB" or "1 MB".
func (s *Settings) PoolSize() (int, error) {
	n, err := humanize.ParseBytes(s.Pool.Size)
	if err != nil {
		return 0, errors.Wrapf(err, "pool.size %q", s.Pool.Size)
	}
	if n > uint64(maxInt) {
		return 0, errors.Errorf("pool.size %q too large", s.Pool.Size)
	}
	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)

// PoolConfig converts the pool settings into a fixedpool.Config that logs to
// logger.
func (s *Settings) PoolConfig(logger logrus.FieldLogger) (*fixedpool.Config, error) {
	cfg := fixedpool.DefaultConfig()
	cfg.ZeroMemoryAfterFree = s.Pool.ZeroAfterFree
	cfg.ZeroMemoryOnDestruct = s.Pool.ZeroOnRelease
	cfg.DumpOnFailure = s.Pool.DumpOnFailure
	cfg.Logger = logger

	switch strings.ToLower(s.Pool.Backing) {
	case "heap":
		cfg.Backing = fixedpool.BackingHeap
	case "mmap":
		cfg.Backing = fixedpool.BackingMmap
	default:
		return nil, errors.Errorf("unknown pool.backing %q", s.Pool.Backing)
	}

	switch strings.ToLower(s.Pool.TypeCheck) {
	case "identity":
		cfg.TypeCheck = fixedpool.TypeCheckIdentity
	case "size":
		cfg.TypeCheck = fixedpool.TypeCheckSize
	default:
		return nil, errors.Errorf("unknown pool.type_check %q", s.Pool.TypeCheck)
	}
	return cfg, nil
}

// NewLogger builds the process logger from the log settings.
func (s *Settings) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	switch strings.ToLower(s.Log.Format) {
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log.format %q", s.Log.Format)
	}
	return logger, nil
}
