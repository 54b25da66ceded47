package cmd

import (
	"fmt"

	"github.com/nftlabs/mintflow/pkg/nftlabs"
	"github.com/spf13/cobra"
)

func NewAddressCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Show the signer address and its native balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sdkOpts, err := root.Config().SdkOptions()
			if err != nil {
				return err
			}
			sdk, err := nftlabs.Dial(cmd.Context(), sdkOpts)
			if err != nil {
				return err
			}
			defer sdk.Close()
			balance, err := sdk.Balance(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Address:", sdk.SignerAddress().Hex())
			fmt.Fprintln(out, "Balance:", balance)
			return nil
		},
	}
}
