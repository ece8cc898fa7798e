package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"in3go/core"
)

func newChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List the bootstrap chains and their registered nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cerr := core.NewClient(0)
			if cerr != nil {
				return cerr
			}
			for _, id := range []uint64{
				core.ChainIDMainnet, core.ChainIDKovan, core.ChainIDGoerli,
				core.ChainIDIPFS, core.ChainIDLocal,
			} {
				chain := client.FindChain(id)
				if chain == nil {
					continue
				}
				fmt.Printf("chain 0x%x: %d node(s)\n", chain.ChainID, len(chain.Nodes))
				for _, n := range chain.Nodes {
					fmt.Printf("  %s  %s\n", n.Address.Hex(), n.URL)
				}
			}
			return nil
		},
	}
}
