package nftlabs

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
)

const (
	DefaultIpfsApiUrl     = "https://ipfs.infura.io:5001"
	DefaultIpfsGatewayUrl = "https://ipfs.io/ipfs/"
)

// infuraNetworks maps chain ids to the provider's network sub-domain.
var infuraNetworks = map[int64]string{
	1:        "mainnet",
	5:        "goerli",
	11155111: "sepolia",
	137:      "polygon-mainnet",
	80001:    "polygon-mumbai",
	10:       "optimism-mainnet",
	42161:    "arbitrum-mainnet",
}

type IpfsOptions struct {
	// ProjectID and Secret authenticate against the IPFS HTTP API.
	ProjectID string
	Secret    string

	// ApiUrl is the base url of the IPFS HTTP API, defaults to DefaultIpfsApiUrl.
	ApiUrl string
}

// S3Options selects an S3 compatible pinning service instead of the IPFS HTTP API.
type S3Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type SdkOptions struct {
	// ProviderProjectID and ProviderSecret authenticate against the rpc provider.
	// When RpcUri is empty the endpoint is derived from them and ChainID.
	ProviderProjectID string
	ProviderSecret    string

	// PrivateKey is the hex encoded key of the signing wallet.
	PrivateKey string

	RpcUri  string
	ChainID *big.Int

	// GasPrice in gwei. When nil, EIP-1559 fee caps are derived from the latest block.
	GasPrice *big.Int

	Ipfs           IpfsOptions
	IpfsGatewayUrl string

	// S3, when set, replaces the IPFS HTTP API as the content storage backend.
	S3 *S3Options

	// TemplateArtifacts maps a contract template to the path of its compiled artifact.
	TemplateArtifacts map[Template]string
}

// Validate checks that every value needed to deploy and mint is present and well formed.
func (opt *SdkOptions) Validate() error {
	if opt == nil {
		return errors.Wrap(errs.MissingConfig, "sdk options")
	}

	if opt.PrivateKey == "" {
		return errors.Wrap(errs.MissingConfig, "wallet private key (WALLET_PRIVATE_KEY)")
	}
	if _, _, err := processPrivateKey(opt.PrivateKey); err != nil {
		return errors.Wrap(errs.InvalidArgument, "wallet private key is not a valid secp256k1 key")
	}

	if opt.ChainID == nil || opt.ChainID.Sign() <= 0 {
		return errors.Wrap(errs.MissingConfig, "chain id")
	}

	if opt.RpcUri == "" && opt.ProviderProjectID == "" {
		return errors.Wrap(errs.MissingConfig, "rpc url (EVM_RPC_URL) or provider project id (INFURA_PROJECT_ID)")
	}
	if _, err := opt.rpcEndpoint(); err != nil {
		return err
	}

	if opt.S3 != nil {
		switch {
		case opt.S3.Bucket == "":
			return errors.Wrap(errs.MissingConfig, "s3 bucket (S3_BUCKET)")
		case opt.S3.AccessKeyID == "" || opt.S3.SecretAccessKey == "":
			return errors.Wrap(errs.MissingConfig, "s3 credentials (S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY)")
		}
	} else {
		if opt.Ipfs.ProjectID == "" {
			return errors.Wrap(errs.MissingConfig, "ipfs project id (INFURA_IPFS_PROJECT_ID)")
		}
		if opt.Ipfs.Secret == "" {
			return errors.Wrap(errs.MissingConfig, "ipfs project secret (INFURA_IPFS_PROJECT_SECRET)")
		}
		if err := validateHTTPURL(opt.ipfsApiUrl(), "ipfs api url"); err != nil {
			return err
		}
	}

	return validateHTTPURL(opt.gatewayUrl(), "ipfs gateway url")
}

// ArtifactPath returns the configured artifact path of a template.
func (opt *SdkOptions) ArtifactPath(template Template) string {
	if opt == nil || opt.TemplateArtifacts == nil {
		return ""
	}
	return opt.TemplateArtifacts[template]
}

// rpcEndpoint returns the rpc url to dial, deriving the provider url when RpcUri is empty.
func (opt *SdkOptions) rpcEndpoint() (string, error) {
	if opt.RpcUri != "" {
		u, err := url.Parse(opt.RpcUri)
		if err != nil {
			return "", errors.Wrapf(errs.InvalidArgument, "rpc url %q: %v", opt.RpcUri, err)
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
			return opt.RpcUri, nil
		default:
			return "", errors.Wrapf(errs.InvalidArgument, "rpc url %q must use http(s) or ws(s)", opt.RpcUri)
		}
	}

	if opt.ChainID == nil {
		return "", errors.Wrap(errs.MissingConfig, "chain id")
	}
	var network string
	if opt.ChainID.IsInt64() {
		network = infuraNetworks[opt.ChainID.Int64()]
	}
	if network == "" {
		return "", errors.Wrapf(errs.Unsupported, "no provider network for chain id %v, set EVM_RPC_URL", opt.ChainID)
	}
	return fmt.Sprintf("https://%s.infura.io/v3/%s", network, opt.ProviderProjectID), nil
}

func (opt *SdkOptions) ipfsApiUrl() string {
	if opt.Ipfs.ApiUrl == "" {
		return DefaultIpfsApiUrl
	}
	return opt.Ipfs.ApiUrl
}

func (opt *SdkOptions) gatewayUrl() string {
	if opt.IpfsGatewayUrl == "" {
		return DefaultIpfsGatewayUrl
	}
	if !strings.HasSuffix(opt.IpfsGatewayUrl, "/") {
		return opt.IpfsGatewayUrl + "/"
	}
	return opt.IpfsGatewayUrl
}

func validateHTTPURL(raw string, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(errs.InvalidArgument, "%s %q: %v", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errs.InvalidArgument, "%s %q must be an absolute http(s) url", name, raw)
	}
	return nil
}
