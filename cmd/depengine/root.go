package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/depengine/config"
	"github.com/kbukum/depengine/version"
)

const serviceName = "depengine"

type rootFlags struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Type-keyed dependency registry",
		Long:         `depengine runs a process-wide service registry and exposes a read-only view of its registrations over HTTP.`,
		Version:      version.Get().String(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "",
		"config file (default: ./cmd/depengine/config.yml, ./config/config.yml or ./config.yml)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "",
		".env file loaded before DEPENGINE_* overrides are applied")

	cmd.AddCommand(
		newServeCmd(flags),
		newGreetCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func (f *rootFlags) load() (*config.Config, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	return config.Load(serviceName, opts...)
}
