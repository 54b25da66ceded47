package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/nftlabs/mintflow/pkg/nftlabs"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type inspectCmdOptions struct {
	Contract string
	Token    string
}

func NewInspectCommand(root *rootOptions) *cobra.Command {
	opts := &inspectCmdOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Read back the collection and token metadata of a deployed contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectHandler(root, opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Contract, "contract", "", "address of the deployed contract")
	flags.StringVar(&opts.Token, "token", "", "token id to resolve, E.g. `0`")
	_ = cmd.MarkFlagRequired("contract")

	return cmd
}

func inspectHandler(root *rootOptions, opts *inspectCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var tokenId *big.Int
	if opts.Token != "" {
		id, ok := new(big.Int).SetString(opts.Token, 10)
		if !ok || id.Sign() < 0 {
			return errors.Wrapf(errs.InvalidArgument, "token id %q", opts.Token)
		}
		tokenId = id
	}

	sdkOpts, err := root.Config().SdkOptions()
	if err != nil {
		return err
	}
	sdk, err := nftlabs.Dial(ctx, sdkOpts)
	if err != nil {
		return err
	}
	defer sdk.Close()
	contract, err := sdk.GetMintableContract(opts.Contract)
	if err != nil {
		return err
	}
	storage, err := sdk.GetStorage()
	if err != nil {
		return err
	}

	var (
		contractURI string
		collection  json.RawMessage
		supply      *big.Int
		token       nftlabs.NftMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		uri, err := contract.ContractURI(gctx)
		if err != nil {
			return err
		}
		contractURI = uri
		body, err := storage.Get(gctx, uri)
		if err != nil {
			return errors.Wrap(err, "can't fetch collection metadata")
		}
		collection = body
		return nil
	})
	g.Go(func() (err error) {
		supply, err = contract.TotalSupply(gctx)
		return err
	})
	if tokenId != nil {
		g.Go(func() (err error) {
			token, err = contract.Get(gctx, tokenId)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Contract Address:", contract.Address().Hex())
	fmt.Fprintln(out, "Total Supply:", supply)
	fmt.Fprintln(out, "Contract URI:", contractURI)
	fmt.Fprintln(out, "Collection Metadata:", string(collection))
	if tokenId != nil {
		body, err := json.MarshalIndent(token.TokenMetadata, "", "  ")
		if err != nil {
			return errors.Wrap(err, "can't encode token metadata")
		}
		fmt.Fprintln(out, "Token URI:", token.Uri)
		fmt.Fprintln(out, "Token Metadata:", string(body))
	}
	return nil
}
