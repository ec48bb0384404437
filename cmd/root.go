// Package cmd holds the lease-agent command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultConfigPath = "config.yaml"

// NewRootCommand builds the lease-agent command tree.
func NewRootCommand(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Short:         "lease calculator and car deal tracker",
		Long:          "lease calculator API, car deal and offer tracking",
		Use:           "lease-agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fs := &pflag.FlagSet{}
	configPath := defaultConfigPath
	fs.StringVarP(&configPath, "config", "c", configPath, "path to the YAML config file")
	root.PersistentFlags().AddFlagSet(fs)

	root.AddCommand(
		newServeCommand(ctx, &configPath),
		newQuoteCommand(),
		newMigrateCommand(ctx, &configPath),
		newVersionCommand(),
	)
	return root
}
