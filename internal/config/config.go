package config

import (
	"context"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/nftlabs/mintflow/internal/metrics"
	"github.com/nftlabs/mintflow/pkg/logger"
	"github.com/nftlabs/mintflow/pkg/logger/slogx"
	"github.com/nftlabs/mintflow/pkg/nftlabs"
	"github.com/spf13/viper"
)

const (
	StorageBackendIpfs = "ipfs"
	StorageBackendS3   = "s3"

	DefaultChainID  = 5 // Goerli
	DefaultArtifact = "contracts/out/ERC721Mintable.sol/ERC721Mintable.json"
)

type Config struct {
	Logger   logger.Config  `mapstructure:"logger"`
	Provider Provider       `mapstructure:"provider"`
	Wallet   Wallet         `mapstructure:"wallet"`
	Chain    Chain          `mapstructure:"chain"`
	Ipfs     Ipfs           `mapstructure:"ipfs"`
	Storage  Storage        `mapstructure:"storage"`
	Template Template       `mapstructure:"template"`
	Metrics  metrics.Config `mapstructure:"metrics"`
}

type Provider struct {
	ProjectID string `mapstructure:"project_id"`
	Secret    string `mapstructure:"secret"`
}

type Wallet struct {
	PrivateKey string `mapstructure:"private_key"`
	// PublicAddress receives minted tokens.
	PublicAddress string `mapstructure:"public_address"`
}

type Chain struct {
	RpcURL string `mapstructure:"rpc_url"`
	ID     int64  `mapstructure:"id"`
	// GasPrice in gwei, zero selects EIP-1559 fees.
	GasPrice int64 `mapstructure:"gas_price"`
}

type Ipfs struct {
	ProjectID  string `mapstructure:"project_id"`
	Secret     string `mapstructure:"secret"`
	ApiURL     string `mapstructure:"api_url"`
	GatewayURL string `mapstructure:"gateway_url"`
}

type Storage struct {
	Backend string `mapstructure:"backend"`
	S3      S3     `mapstructure:"s3"`
}

type S3 struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type Template struct {
	Artifact string `mapstructure:"artifact"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"logger.output":                "LOGGER_OUTPUT",
	"logger.debug":                 "LOGGER_DEBUG",
	"provider.project_id":          "INFURA_PROJECT_ID",
	"provider.secret":              "INFURA_PROJECT_SECRET",
	"wallet.private_key":           "WALLET_PRIVATE_KEY",
	"wallet.public_address":        "WALLET_PUBLIC_ADDRESS",
	"chain.rpc_url":                "EVM_RPC_URL",
	"chain.id":                     "CHAIN_ID",
	"chain.gas_price":              "GAS_PRICE",
	"ipfs.project_id":              "INFURA_IPFS_PROJECT_ID",
	"ipfs.secret":                  "INFURA_IPFS_PROJECT_SECRET",
	"ipfs.api_url":                 "IPFS_API_URL",
	"ipfs.gateway_url":             "IPFS_GATEWAY_URL",
	"storage.backend":              "STORAGE_BACKEND",
	"storage.s3.endpoint":          "S3_ENDPOINT",
	"storage.s3.region":            "S3_REGION",
	"storage.s3.bucket":            "S3_BUCKET",
	"storage.s3.access_key_id":     "S3_ACCESS_KEY_ID",
	"storage.s3.secret_access_key": "S3_SECRET_ACCESS_KEY",
	"template.artifact":            "TEMPLATE_ARTIFACT",
	"metrics.pushgateway_url":      "METRICS_PUSHGATEWAY_URL",
	"metrics.job":                  "METRICS_JOB",
}

// Load reads configuration from envFile, configFile and the environment. Real environment
// variables take precedence over envFile entries, both take precedence over configFile.
// A missing envFile is ignored, a missing configFile is an error.
func Load(configFile string, envFile string) (*Config, error) {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "can't load env file %q", envFile)
			}
			logger.DebugContext(ctx, "env file not found, using process environment", slogx.String("file", envFile))
		}
	}

	v := viper.New()
	v.SetDefault("logger.output", "TEXT")
	v.SetDefault("chain.id", DefaultChainID)
	v.SetDefault("ipfs.api_url", nftlabs.DefaultIpfsApiUrl)
	v.SetDefault("ipfs.gateway_url", nftlabs.DefaultIpfsGatewayUrl)
	v.SetDefault("storage.backend", StorageBackendIpfs)
	v.SetDefault("template.artifact", DefaultArtifact)
	v.SetDefault("metrics.job", "mintflow")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "can't bind %s", env)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "can't read config file %q", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "can't unmarshal config")
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	return &cfg, nil
}

// SdkOptions builds the sdk options the configuration describes.
func (c *Config) SdkOptions() (*nftlabs.SdkOptions, error) {
	opt := &nftlabs.SdkOptions{
		ProviderProjectID: c.Provider.ProjectID,
		ProviderSecret:    c.Provider.Secret,
		PrivateKey:        c.Wallet.PrivateKey,
		RpcUri:            c.Chain.RpcURL,
		Ipfs: nftlabs.IpfsOptions{
			ProjectID: c.Ipfs.ProjectID,
			Secret:    c.Ipfs.Secret,
			ApiUrl:    c.Ipfs.ApiURL,
		},
		IpfsGatewayUrl: c.Ipfs.GatewayURL,
	}
	if c.Chain.ID != 0 {
		opt.ChainID = big.NewInt(c.Chain.ID)
	}
	if c.Chain.GasPrice > 0 {
		opt.GasPrice = big.NewInt(c.Chain.GasPrice)
	}
	if c.Template.Artifact != "" {
		opt.TemplateArtifacts = map[nftlabs.Template]string{
			nftlabs.TemplateERC721Mintable: c.Template.Artifact,
		}
	}

	switch c.Storage.Backend {
	case "", StorageBackendIpfs:
	case StorageBackendS3:
		opt.S3 = &nftlabs.S3Options{
			Endpoint:        c.Storage.S3.Endpoint,
			Region:          c.Storage.S3.Region,
			Bucket:          c.Storage.S3.Bucket,
			AccessKeyID:     c.Storage.S3.AccessKeyID,
			SecretAccessKey: c.Storage.S3.SecretAccessKey,
		}
	default:
		return nil, errors.Wrapf(errs.Unsupported, "storage backend %q", c.Storage.Backend)
	}

	return opt, nil
}
