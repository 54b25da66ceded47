package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/internal/config"
	"github.com/nftlabs/mintflow/internal/workflow"
	"github.com/nftlabs/mintflow/pkg/logger"
	"github.com/nftlabs/mintflow/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	ConfigFile string
	EnvFile    string

	config *config.Config
}

// Config returns the configuration loaded before the command ran.
func (o *rootOptions) Config() *config.Config {
	return o.config
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "mintflow",
		Short:         "Publish NFT metadata to IPFS, deploy an ERC721 contract and mint a token",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.ConfigFile, opts.EnvFile)
			if err != nil {
				return errors.Wrap(err, "can't load configuration")
			}
			if err := logger.Init(cfg.Logger); err != nil {
				return errors.Wrap(err, "can't initialize logger")
			}
			opts.config = cfg
			return nil
		},
	}

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(
		NewRunCommand(opts),
		NewInspectCommand(opts),
		NewAddressCommand(opts),
		NewVersionCommand(),
	)
	return cmd
}

// Execute runs the command line and logs the error that stopped it.
func Execute(ctx context.Context) error {
	err := NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var stageErr *workflow.StageError
	if errors.As(err, &stageErr) {
		logger.ErrorContext(ctx, "Workflow failed", stageErr.Err, slogx.Stringer("stage", stageErr.Stage))
	} else {
		logger.ErrorContext(ctx, "Command failed", err)
	}
	return err
}
