// Package cli implements the nexus command. Every invocation is a process start: it
// builds an engine from config and restores the persisted session before running.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/internal/logging"
)

type options struct {
	configFile string
	backend    string
	sqlitePath string
	redisAddr  string
	logLevel   string
	logFormat  string
	debug      bool

	cfg    goNexus.Config
	logger *slog.Logger
	engine *goNexus.Engine
}

// NewRootCmd creates the root cobra command for the nexus CLI.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "nexus",
		Short: "Nexus Admin: role-gated dashboard core",
		Long:  "nexus signs in with a mock role, inspects the route guard, and serves the dashboard API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.engine != nil {
				o.engine.Close()
			}
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "YAML config file")
	pf.StringVar(&o.backend, "session-backend", "sqlite", "Session backend (memory, sqlite, redis, miniredis)")
	pf.StringVar(&o.sqlitePath, "sqlite-path", "nexus.db", "SQLite file for the sqlite backend")
	pf.StringVar(&o.redisAddr, "redis-addr", "localhost:6379", "Redis address for the redis backend")
	pf.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&o.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newServeCmd(o),
		newLoginCmd(o),
		newLogoutCmd(o),
		newWhoamiCmd(o),
		newRoutesCmd(o),
		newCheckCmd(o),
	)
	return root
}

// setup layers config: defaults, CLI defaults, file, environment, then flags the user set.
func (o *options) setup(cmd *cobra.Command) error {
	cfg := goNexus.DefaultConfig()
	cfg.Session.Backend = o.backend
	cfg.Session.SQLitePath = o.sqlitePath
	cfg.Log.Level = o.logLevel

	if o.configFile != "" {
		loaded, err := goNexus.LoadConfigFile(o.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("session-backend") {
		cfg.Session.Backend = o.backend
	}
	if flags.Changed("sqlite-path") {
		cfg.Session.SQLitePath = o.sqlitePath
	}
	if flags.Changed("redis-addr") {
		cfg.Session.RedisAddr = o.redisAddr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}

	o.logger = logging.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	engine, err := goNexus.New().WithConfig(cfg).WithLogger(o.logger).Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	o.cfg = cfg
	o.engine = engine
	return nil
}
