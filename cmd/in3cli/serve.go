package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"in3go/core"
	"in3go/pkg/config"
	"in3go/server"
	"in3go/transport/httprpc"
	"in3go/transport/tcprpc"
)

func newServeCmd() *cobra.Command {
	var chainID uint64
	var addr string
	var transportKind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chi-routed JSON-RPC dispatch server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cerr := core.NewClient(chainID)
			if cerr != nil {
				return cerr
			}
			switch transportKind {
			case "http", "":
				client.SetTransport(httprpc.New(5 * time.Second))
			case "tcp":
				client.SetTransport(tcprpc.New(5*time.Second, 4, 30*time.Second))
			default:
				return fmt.Errorf("unknown transport %q, expected http or tcp", transportKind)
			}

			if addr == "" {
				cfg, err := config.LoadFromEnv()
				if err == nil && cfg.Server.ListenAddr != "" {
					addr = cfg.Server.ListenAddr
				} else {
					addr = ":8545"
				}
			}

			srv := server.New(client)
			logrus.Infof("in3cli serve listening on %s", addr)
			return http.ListenAndServe(addr, srv)
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", 0, "chain id (0 = mainnet default)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to config/default.yaml's server.listen_addr")
	cmd.Flags().StringVar(&transportKind, "transport", "http", "node transport: http or tcp")
	return cmd
}
