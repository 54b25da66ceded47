package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/nftlabs/mintflow/internal/metrics"
	"github.com/nftlabs/mintflow/pkg/logger"
	"github.com/nftlabs/mintflow/pkg/logger/slogx"
	"github.com/nftlabs/mintflow/pkg/nftlabs"
)

// ImageURI is the storage uri of an uploaded image.
type ImageURI string

// TokenMetadataURI is the storage uri of token level metadata, the token uri of a mint.
type TokenMetadataURI string

// CollectionMetadataURI is the storage uri of collection level metadata, the contract uri of a deployment.
type CollectionMetadataURI string

// Result holds every artifact a run produced. Fields of stages that did not run stay empty.
type Result struct {
	ImageURI              ImageURI
	TokenMetadata         nftlabs.TokenMetadata
	TokenMetadataURI      TokenMetadataURI
	CollectionImageURI    ImageURI
	CollectionMetadata    nftlabs.CollectionMetadata
	CollectionMetadataURI CollectionMetadataURI
	ContractAddress       common.Address
	Mint                  *nftlabs.MintResult
	DryRun                bool
}

type Runner struct {
	opts *nftlabs.SdkOptions
	dial Dialer
	plan Plan

	out     io.Writer
	metrics *metrics.Metrics
	dryRun  bool
}

type Option func(*Runner)

// WithOutput sets where artifacts are printed, os.Stdout by default.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithDryRun stops a run after the collection metadata is stored, nothing is sent on chain.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

func New(opts *nftlabs.SdkOptions, dial Dialer, plan Plan, options ...Option) *Runner {
	r := &Runner{
		opts: opts,
		dial: dial,
		plan: plan,
		out:  os.Stdout,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Run executes every stage in order and stops at the first failure, returned as *StageError.
func (r *Runner) Run(ctx context.Context) (result *Result, err error) {
	ctx = logger.WithContext(ctx, slogx.String("package", "workflow"))
	result = &Result{DryRun: r.dryRun}
	defer func() {
		r.metrics.ObserveRun(err)
	}()

	if err := r.stage(ctx, StageCredentials, func(ctx context.Context) error {
		return r.checkCredentials()
	}); err != nil {
		return result, err
	}

	var client Client
	if err := r.stage(ctx, StageClient, func(ctx context.Context) (err error) {
		client, err = r.dial(ctx, r.opts)
		return err
	}); err != nil {
		return result, err
	}
	if closer, ok := client.(interface{ Close() }); ok {
		defer closer.Close()
	}

	if err := r.stage(ctx, StageUploadImage, func(ctx context.Context) (err error) {
		result.ImageURI, err = r.uploadImage(ctx, client, r.plan.TokenImage)
		return err
	}); err != nil {
		return result, err
	}

	if err := r.stage(ctx, StageStoreTokenMetadata, func(ctx context.Context) (err error) {
		result.TokenMetadata, result.TokenMetadataURI, err = r.storeTokenMetadata(ctx, client, result.ImageURI)
		return err
	}); err != nil {
		return result, err
	}

	if err := r.stage(ctx, StageStoreCollectionMetadata, func(ctx context.Context) (err error) {
		result.CollectionImageURI, err = r.uploadImage(ctx, client, r.plan.CollectionImage)
		if err != nil {
			return err
		}
		result.CollectionMetadata, result.CollectionMetadataURI, err = r.storeCollectionMetadata(ctx, client, result.CollectionImageURI)
		return err
	}); err != nil {
		return result, err
	}

	if r.dryRun {
		logger.InfoContext(ctx, "Dry run, skipping deploy and mint")
		return result, nil
	}

	var contract Contract
	if err := r.stage(ctx, StageDeploy, func(ctx context.Context) (err error) {
		contract, err = r.deploy(ctx, client, result.CollectionMetadataURI)
		if err != nil {
			return err
		}
		result.ContractAddress = contract.Address()
		return nil
	}); err != nil {
		return result, err
	}

	if err := r.stage(ctx, StageMint, func(ctx context.Context) (err error) {
		result.Mint, err = r.mint(ctx, contract, result.TokenMetadataURI, r.plan.Recipient)
		return err
	}); err != nil {
		return result, err
	}

	return result, nil
}

func (r *Runner) stage(ctx context.Context, stage Stage, fn func(ctx context.Context) error) error {
	ctx = logger.WithContext(ctx, slogx.Stringer("stage", stage))
	start := time.Now()
	logger.DebugContext(ctx, "Stage started")

	err := fn(ctx)
	r.metrics.ObserveStage(stage.String(), time.Since(start), err)
	if err != nil {
		return &StageError{Stage: stage, Err: err}
	}

	logger.InfoContext(ctx, "Stage finished", slogx.Duration("duration", time.Since(start)))
	return nil
}

func (r *Runner) checkCredentials() error {
	if err := r.opts.Validate(); err != nil {
		return err
	}
	if !common.IsHexAddress(r.plan.Recipient) {
		return errors.Wrapf(errs.InvalidArgument, "recipient %q is not an address", r.plan.Recipient)
	}
	if r.dryRun {
		return nil
	}
	if _, err := nftlabs.LoadArtifact(r.opts.ArtifactPath(r.plan.Template)); err != nil {
		return errors.Wrapf(err, "%v artifact (TEMPLATE_ARTIFACT)", r.plan.Template)
	}
	return nil
}

func (r *Runner) uploadImage(ctx context.Context, client Client, source string) (ImageURI, error) {
	uri, err := client.StoreFile(ctx, source)
	if err != nil {
		return "", errors.Wrapf(err, "can't store %q", source)
	}
	return ImageURI(uri), nil
}

func (r *Runner) storeTokenMetadata(ctx context.Context, client Client, image ImageURI) (nftlabs.TokenMetadata, TokenMetadataURI, error) {
	token := r.plan.Token
	token.Image = string(image)
	metadata, err := nftlabs.OpenSeaTokenLevelStandard(token)
	if err != nil {
		return nftlabs.TokenMetadata{}, "", err
	}
	r.printJSON("Token Metadata:", metadata)

	uri, err := client.StoreMetadata(ctx, metadata)
	if err != nil {
		return metadata, "", errors.Wrap(err, "can't store token metadata")
	}
	r.println("Store Token Metadata:", uri)
	return metadata, TokenMetadataURI(uri), nil
}

func (r *Runner) storeCollectionMetadata(ctx context.Context, client Client, image ImageURI) (nftlabs.CollectionMetadata, CollectionMetadataURI, error) {
	collection := r.plan.Collection
	collection.Image = string(image)
	metadata, err := nftlabs.OpenSeaCollectionLevelStandard(collection)
	if err != nil {
		return nftlabs.CollectionMetadata{}, "", err
	}
	r.printJSON("Collection Metadata:-", metadata)

	uri, err := client.StoreMetadata(ctx, metadata)
	if err != nil {
		return metadata, "", errors.Wrap(err, "can't store collection metadata")
	}
	r.println("Store Metadata:", uri)
	return metadata, CollectionMetadataURI(uri), nil
}

func (r *Runner) deploy(ctx context.Context, client Client, contractURI CollectionMetadataURI) (Contract, error) {
	contract, err := client.Deploy(ctx, r.plan.Template, nftlabs.DeployParams{
		Name:        r.plan.ContractName,
		Symbol:      r.plan.ContractSymbol,
		ContractURI: string(contractURI),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "can't deploy %v", r.plan.Template)
	}
	r.println("Contract Address:", contract.Address().Hex())
	return contract, nil
}

func (r *Runner) mint(ctx context.Context, contract Contract, tokenURI TokenMetadataURI, recipient string) (*nftlabs.MintResult, error) {
	pending, err := contract.Mint(ctx, recipient, string(tokenURI))
	if err != nil {
		return nil, errors.Wrap(err, "can't mint")
	}
	logger.InfoContext(ctx, "Waiting for mint confirmation", slogx.String("tx", pending.Hash().Hex()))

	minted, err := pending.Wait(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "mint %v", pending.Hash().Hex())
	}
	r.println("Minted:", minted.String())
	return minted, nil
}

func (r *Runner) println(label string, value string) {
	fmt.Fprintln(r.out, label, value)
}

func (r *Runner) printJSON(label string, value interface{}) {
	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fmt.Fprintln(r.out, label, value)
		return
	}
	fmt.Fprintln(r.out, label, string(body))
}
