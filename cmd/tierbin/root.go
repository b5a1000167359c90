package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	version = "dev"
	commit  = "none"
)

// app holds the state shared by subcommands once the root has parsed its
// persistent flags.
type app struct {
	cfgFile  string
	logLevel string

	cfg config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "tierbin",
		Short: "Seal, open and inspect tierbin frames",
		Long: `tierbin wraps payloads in checksummed, optionally compressed frames.

A frame is a 13-byte header, the body and a crc32 or blake3 digest.
Bodies are compressed with zstd or lz4 when that makes them smaller.

  tierbin seal payload.bin -o payload.tb
  tierbin inspect payload.tb
  tierbin open payload.tb`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides log_level in the config file)")

	root.AddCommand(a.sealCmd(), a.openCmd(), a.inspectCmd(), a.configCmd(), versionCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
	if a.cfgFile != "" {
		a.log.Debug().Str("path", a.cfgFile).Msg("loaded config")
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tierbin %s\n  commit: %s\n", version, commit)
		},
	}
}
