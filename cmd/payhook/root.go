package main

import (
	"context"

	"github.com/goliatone/go-payhooks/core"
	"github.com/spf13/cobra"
)

const envPrefix = "PAYHOOKS"

type rootOptions struct {
	configFile  string
	environment string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "payhook",
		Short:         "Validate payment processor webhooks and drive test processor calls",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config-file", "", "processor client file (overrides PAYHOOKS_PROCESSOR_CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.environment, "env", "", "processor environment: test or prod")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSignCmd(opts))
	cmd.AddCommand(newSealCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig layers defaults, PAYHOOKS_* variables and the persistent flags.
func (o *rootOptions) loadConfig(ctx context.Context, runtime core.Config) (core.Config, error) {
	loader := core.NewEnvConfigLoader(envPrefix)
	if o.configFile != "" {
		runtime.Processor.ConfigFile = o.configFile
	}
	if o.environment != "" {
		runtime.Processor.Environment = o.environment
	}
	return core.LoadConfig(ctx, loader, runtime)
}
