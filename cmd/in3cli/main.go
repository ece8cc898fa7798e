// Command in3cli is the operator-facing CLI for the dispatch engine,
// mirroring cmd/synnergy/main.go and cmd/cli/network.go's flag/subcommand
// conventions: github.com/spf13/cobra for the command tree,
// github.com/sirupsen/logrus for output, github.com/joho/godotenv plus
// pkg/config for process bootstrap.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"in3go/pkg/config"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "in3cli",
		Short: "Trust-minimized JSON-RPC dispatch client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				logrus.Warnf("config load failed, using defaults: %s", err)
				return nil
			}
			if lvl := cfg.Logging.Level; lvl != "" {
				if parsed, err := logrus.ParseLevel(lvl); err == nil {
					logrus.SetLevel(parsed)
				}
			}
			return nil
		},
	}

	root.AddCommand(newChainsCmd())
	root.AddCommand(newConfigureCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
		os.Exit(1)
	}
}
