package nftlabs

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() *SdkOptions {
	return &SdkOptions{
		ProviderProjectID: "project",
		ProviderSecret:    "secret",
		PrivateKey:        testPrivateKey,
		ChainID:           big.NewInt(5),
		Ipfs:              IpfsOptions{ProjectID: "ipfs-project", Secret: "ipfs-secret"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validOptions().Validate())

	testCases := []struct {
		name   string
		mutate func(*SdkOptions)
		kind   errs.ErrorKind
	}{
		{"missing private key", func(o *SdkOptions) { o.PrivateKey = "" }, errs.MissingConfig},
		{"malformed private key", func(o *SdkOptions) { o.PrivateKey = "0x1234" }, errs.InvalidArgument},
		{"missing chain id", func(o *SdkOptions) { o.ChainID = nil }, errs.MissingConfig},
		{"missing provider", func(o *SdkOptions) { o.ProviderProjectID = "" }, errs.MissingConfig},
		{"unknown network", func(o *SdkOptions) { o.ChainID = big.NewInt(31337) }, errs.Unsupported},
		{"bad rpc url", func(o *SdkOptions) { o.RpcUri = "ftp://node" }, errs.InvalidArgument},
		{"missing ipfs project", func(o *SdkOptions) { o.Ipfs.ProjectID = "" }, errs.MissingConfig},
		{"missing ipfs secret", func(o *SdkOptions) { o.Ipfs.Secret = "" }, errs.MissingConfig},
		{"bad ipfs api url", func(o *SdkOptions) { o.Ipfs.ApiUrl = "localhost:5001" }, errs.InvalidArgument},
		{"bad gateway url", func(o *SdkOptions) { o.IpfsGatewayUrl = "/ipfs/" }, errs.InvalidArgument},
		{"missing s3 bucket", func(o *SdkOptions) { o.S3 = &S3Options{AccessKeyID: "k", SecretAccessKey: "s"} }, errs.MissingConfig},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opt := validOptions()
			tc.mutate(opt)
			err := opt.Validate()
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
		})
	}
}

func TestValidateExplicitRpcSkipsProvider(t *testing.T) {
	opt := validOptions()
	opt.ProviderProjectID = ""
	opt.RpcUri = "http://127.0.0.1:8545"
	opt.ChainID = big.NewInt(31337)
	assert.NoError(t, opt.Validate())
}

func TestValidateS3SkipsIpfsCredentials(t *testing.T) {
	opt := validOptions()
	opt.Ipfs = IpfsOptions{}
	opt.S3 = &S3Options{Bucket: "nft", AccessKeyID: "k", SecretAccessKey: "s"}
	assert.NoError(t, opt.Validate())
}

func TestRpcEndpoint(t *testing.T) {
	opt := validOptions()
	endpoint, err := opt.rpcEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "https://goerli.infura.io/v3/project", endpoint)

	opt.ChainID = big.NewInt(11155111)
	endpoint, err = opt.rpcEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "https://sepolia.infura.io/v3/project", endpoint)

	opt.RpcUri = "wss://node.example/ws"
	endpoint, err = opt.rpcEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "wss://node.example/ws", endpoint)
}

func TestGatewayUrl(t *testing.T) {
	opt := &SdkOptions{}
	assert.Equal(t, DefaultIpfsGatewayUrl, opt.gatewayUrl())
	assert.Equal(t, DefaultIpfsApiUrl, opt.ipfsApiUrl())

	opt.IpfsGatewayUrl = "https://gateway.example/ipfs"
	assert.Equal(t, "https://gateway.example/ipfs/", opt.gatewayUrl())
}

func TestArtifactPath(t *testing.T) {
	var opt *SdkOptions
	assert.Empty(t, opt.ArtifactPath(TemplateERC721Mintable))

	opt = &SdkOptions{TemplateArtifacts: map[Template]string{TemplateERC721Mintable: "out/ERC721Mintable.json"}}
	assert.Equal(t, "out/ERC721Mintable.json", opt.ArtifactPath(TemplateERC721Mintable))
}
