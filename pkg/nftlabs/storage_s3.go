package nftlabs

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/nftlabs/mintflow/pkg/httpclient"
)

const (
	defaultS3Region = "us-east-1"

	// cidMetadataKey is the object metadata entry where IPFS pinning buckets report the content id.
	cidMetadataKey = "cid"
)

var _ Storage = (*S3Storage)(nil)

// S3Storage stores content in an S3 compatible bucket that pins every object to IPFS.
type S3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	gateway  *httpclient.Client
}

func NewS3Storage(ctx context.Context, opt S3Options, gatewayUrl string) (*S3Storage, error) {
	region := opt.Region
	if region == "" {
		region = defaultS3Region
	}
	sdkConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opt.AccessKeyID, opt.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws config")
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if opt.Endpoint != "" {
			o.BaseEndpoint = aws.String(opt.Endpoint)
		}
		o.UsePathStyle = true
	})

	if gatewayUrl == "" {
		gatewayUrl = DefaultIpfsGatewayUrl
	}
	if !strings.HasSuffix(gatewayUrl, "/") {
		gatewayUrl += "/"
	}
	gateway, err := httpclient.New(gatewayUrl, httpclient.Config{MaxRedirects: 5})
	if err != nil {
		return nil, errors.Wrap(err, "can't create ipfs gateway client")
	}

	return &S3Storage{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opt.Bucket,
		gateway:  gateway,
	}, nil
}

// Upload stores data under its keccak256 hash so identical content maps to the same object.
func (s *S3Storage) Upload(ctx context.Context, data []byte, name string) (string, error) {
	key := strings.TrimPrefix(crypto.Keccak256Hash(data).Hex(), "0x")

	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}); err != nil {
		return "", errors.Wrapf(err, "can't upload %q to bucket %q", name, s.bucket)
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", errors.Wrapf(err, "can't read metadata of object %q", key)
	}

	for k, v := range head.Metadata {
		if strings.EqualFold(k, cidMetadataKey) && v != "" {
			return ipfsScheme + v, nil
		}
	}
	return "", errors.Errorf("object %q in bucket %q carries no %s metadata", key, s.bucket, cidMetadataKey)
}

func (s *S3Storage) UploadBatch(ctx context.Context, data [][]byte) ([]string, error) {
	return uploadBatch(ctx, s, data)
}

func (s *S3Storage) Get(ctx context.Context, uri string) ([]byte, error) {
	return getFromGateway(ctx, s.gateway, uri)
}
