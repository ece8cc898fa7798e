package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"in3go/core"
	"in3go/transport/httprpc"
)

func newCallCmd() *cobra.Command {
	var chainID uint64
	var timeoutMS int

	cmd := &cobra.Command{
		Use:   "call <method> [params...]",
		Short: "Drive one request end-to-end over the HTTP transport",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cerr := core.NewClient(chainID)
			if cerr != nil {
				return cerr
			}
			client.SetTransport(httprpc.New(time.Duration(timeoutMS) * time.Millisecond))

			params := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				params = append(params, a)
			}

			rctx := core.NewRPCContext(client, []core.RPCRequest{{Method: args[0], Params: params}})
			defer rctx.Free()

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMS)*time.Millisecond*2)
			defer cancel()

			if err := core.Send(ctx, rctx); err != nil {
				return err
			}
			out, _ := json.MarshalIndent(rctx.ParsedResult, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", 0, "chain id (0 = mainnet default)")
	cmd.Flags().IntVar(&timeoutMS, "timeout-ms", 5000, "per-node HTTP timeout in milliseconds")
	return cmd
}
