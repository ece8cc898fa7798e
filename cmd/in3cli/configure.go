package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"in3go/core"
)

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure <file>",
		Short: "Apply a JSON configuration document to a freshly built client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			client, cerr := core.NewClient(0)
			if cerr != nil {
				return cerr
			}
			if cerr := core.Configure(client, doc); cerr != nil {
				return cerr
			}
			fmt.Printf("configuration applied, active chain 0x%x\n", client.ChainID())
			return nil
		},
	}
}
