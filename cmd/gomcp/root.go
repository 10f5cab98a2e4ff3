package main

import (
	"github.com/spf13/cobra"

	"github.com/richard-senior/gomcp/internal/config"
	"github.com/richard-senior/gomcp/internal/logger"
)

// sharedFlags holds the persistent flags every subcommand reads, mirroring
// the -config/-debug shape of the teacher's own cmd/mcp flag set, rebuilt
// on top of cobra per spec's AMBIENT STACK CLI-tooling convention.
type sharedFlags struct {
	configPath string
	transport  string
	addr       string
	strict     bool
	strictSet  bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &sharedFlags{}

	root := &cobra.Command{
		Use:   "gomcp",
		Short: "Example client and server for the MCP peer runtime",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetShowDateTime(true)
			flags.strictSet = cmd.Flags().Changed("strict")
			if flags.debug {
				logger.SetLevel(logger.DEBUG)
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a gomcp YAML configuration file")
	root.PersistentFlags().StringVar(&flags.transport, "transport", "", "stdio, net, or sse (overrides the config file)")
	root.PersistentFlags().StringVar(&flags.addr, "addr", "", "listen/dial address for net and sse transports")
	root.PersistentFlags().BoolVar(&flags.strict, "strict", true, "reject out-of-lifecycle messages instead of tolerating them")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newCallCmd(flags))
	return root
}

// loadConfiguration merges the on-disk config (if any) with the flags the
// caller explicitly set, flags taking precedence (spec's Configuration is
// named for Strict; the rest are this binary's own ambient additions).
func loadConfiguration(flags *sharedFlags) (config.Configuration, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.strictSet {
		cfg.Strict = flags.strict
	}
	if flags.transport != "" {
		cfg.TransportKind = config.TransportKind(flags.transport)
	}
	if flags.addr != "" {
		cfg.ListenAddr = flags.addr
	}
	return cfg, nil
}
