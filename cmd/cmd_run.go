package cmd

import (
	"strconv"

	"github.com/nftlabs/mintflow/internal/metrics"
	"github.com/nftlabs/mintflow/internal/workflow"
	"github.com/nftlabs/mintflow/pkg/logger"
	"github.com/nftlabs/mintflow/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

type runCmdOptions struct {
	Recipient        string
	DryRun           bool
	TemplateArtifact string
}

func NewRunCommand(root *rootOptions) *cobra.Command {
	opts := &runCmdOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Upload the images and metadata, deploy the collection contract and mint one token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHandler(root, opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Recipient, "recipient", "", "address receiving the token, overrides WALLET_PUBLIC_ADDRESS")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "store images and metadata only, skip deploy and mint")
	flags.StringVar(&opts.TemplateArtifact, "template-artifact", "", "compiled ERC721Mintable artifact, overrides TEMPLATE_ARTIFACT")

	return cmd
}

func runHandler(root *rootOptions, opts *runCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := root.Config()

	if opts.TemplateArtifact != "" {
		cfg.Template.Artifact = opts.TemplateArtifact
	}
	recipient := cfg.Wallet.PublicAddress
	if opts.Recipient != "" {
		recipient = opts.Recipient
	}

	sdkOpts, err := cfg.SdkOptions()
	if err != nil {
		return err
	}

	m := metrics.New(strconv.FormatInt(cfg.Chain.ID, 10))
	runner := workflow.New(sdkOpts, workflow.DialSdk, workflow.DefaultPlan(recipient),
		workflow.WithOutput(cmd.OutOrStdout()),
		workflow.WithMetrics(m),
		workflow.WithDryRun(opts.DryRun),
	)

	result, runErr := runner.Run(ctx)
	if err := m.Push(ctx, cfg.Metrics); err != nil {
		logger.WarnContext(ctx, "Failed to push metrics", slogx.Error(err))
	}
	if runErr != nil {
		return runErr
	}

	if result.Mint != nil {
		logger.InfoContext(ctx, "Workflow completed",
			slogx.String("contract", result.ContractAddress.Hex()),
			slogx.BigInt("token_id", result.Mint.TokenId),
			slogx.String("recipient", result.Mint.To.Hex()),
		)
	} else {
		logger.InfoContext(ctx, "Workflow completed without on-chain stages",
			slogx.String("collection_metadata", string(result.CollectionMetadataURI)),
		)
	}
	return nil
}
