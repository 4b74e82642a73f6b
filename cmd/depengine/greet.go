package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/depengine/di"
	"github.com/kbukum/depengine/logger"
)

func newGreetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "greet NAME",
		Short: "Resolve the lazy Greeter from the default registry and greet NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Logging)
			log := logger.WithComponent("greet")

			reg := di.New()
			di.SetDefault(reg)
			handles := registerServices(reg, cfg.Engine, log)

			greeter, err := di.InjectDefault[Greeter]().Lookup()
			if err == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), greeter.Greet(args[0]))
			}

			closeErr := reg.Close()
			for _, h := range handles {
				_ = h.Close()
			}
			return errors.Join(err, closeErr)
		},
	}
}
