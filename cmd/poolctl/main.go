package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavanmanishd/fixedpool"
	"github.com/pavanmanishd/fixedpool/internal/config"
	"github.com/pavanmanishd/fixedpool/internal/shell"
)

var version = "dev"

var (
	v       = viper.New()
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:           "poolctl",
	Short:         "Inspect and exercise a fixed-capacity memory pool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is a configured pool plus the logger it reports to.
type session struct {
	settings *config.Settings
	log      *logrus.Logger
	pool     *fixedpool.SafePool
}

func newSession() (*session, error) {
	settings, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := settings.NewLogger()
	if err != nil {
		return nil, err
	}
	size, err := settings.PoolSize()
	if err != nil {
		return nil, err
	}
	cfg, err := settings.PoolConfig(logger)
	if err != nil {
		return nil, err
	}
	pool, err := fixedpool.NewSafePool(size, cfg)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"size":       size,
		"backing":    cfg.Backing,
		"type_check": cfg.TypeCheck,
	}).Debug("pool created")
	return &session{settings: settings, log: logger, pool: pool}, nil
}

func (s *session) close() {
	if err := s.pool.Release(); err != nil {
		s.log.WithError(err).Error("release pool")
	}
}

// serveMetrics exposes the pool collector on addr until the returned stop
// function is called.
func (s *session) serveMetrics(addr string) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(fixedpool.NewCollector(s.pool, "poolctl", nil))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("metrics server")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("size", "", "arena size, e.g. 4096 or 64KiB")
	flags.String("backing", "", "arena backing: heap or mmap")
	flags.String("type-check", "", "typed retrieval check: identity or size")
	flags.Bool("zero-after-free", false, "clear regions when they are freed")
	flags.Bool("dump-on-failure", false, "log a heap dump when a typed allocation fails")
	flags.String("log-level", "", "log level")
	flags.String("log-format", "", "log format: text or json")

	mustBind("pool.size", flags.Lookup("size"))
	mustBind("pool.backing", flags.Lookup("backing"))
	mustBind("pool.type_check", flags.Lookup("type-check"))
	mustBind("pool.zero_after_free", flags.Lookup("zero-after-free"))
	mustBind("pool.dump_on_failure", flags.Lookup("dump-on-failure"))
	mustBind("log.level", flags.Lookup("log-level"))
	mustBind("log.format", flags.Lookup("log-format"))

	// shell
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive pool shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.close()

			if addr := s.settings.Metrics.Addr; addr != "" {
				stop := s.serveMetrics(addr)
				defer stop()
			}

			fmt.Printf("poolctl %s, %d byte pool. Type 'help' for commands.\n", version, s.pool.MaxSize())
			return shell.New(s.pool, s.log).Interactive(s.settings.Shell.History, os.Stdout)
		},
	}
	shellCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	shellCmd.Flags().String("history", "", "history file")
	mustBind("metrics.addr", shellCmd.Flags().Lookup("metrics-addr"))
	mustBind("shell.history", shellCmd.Flags().Lookup("history"))

	// run
	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute pool commands from a file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.close()

			in := os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return shell.New(s.pool, s.log).Run(in, os.Stdout)
		},
	}

	// version
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the poolctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	rootCmd.AddCommand(shellCmd, runCmd, versionCmd)
}

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
