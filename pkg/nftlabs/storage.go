package nftlabs

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/nftlabs/mintflow/pkg/httpclient"
	"golang.org/x/sync/errgroup"
)

const ipfsScheme = "ipfs://"

// Storage stores content and hands back a uri that resolves to it.
type Storage interface {
	// Upload stores data and returns its ipfs:// uri.
	Upload(ctx context.Context, data []byte, name string) (string, error)
	// UploadBatch stores every entry concurrently. The returned uris keep the input order.
	UploadBatch(ctx context.Context, data [][]byte) ([]string, error)
	// Get fetches the content behind an ipfs:// uri from the gateway.
	Get(ctx context.Context, uri string) ([]byte, error)
}

type IpfsStorage struct {
	api     *httpclient.Client
	gateway *httpclient.Client
	// gatewayUrl always ends with a slash.
	gatewayUrl string
}

type ipfsAddResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

func NewIpfsStorage(opt IpfsOptions, gatewayUrl string) (*IpfsStorage, error) {
	apiUrl := opt.ApiUrl
	if apiUrl == "" {
		apiUrl = DefaultIpfsApiUrl
	}
	if gatewayUrl == "" {
		gatewayUrl = DefaultIpfsGatewayUrl
	}
	if !strings.HasSuffix(gatewayUrl, "/") {
		gatewayUrl += "/"
	}
	return newIpfsStorage(opt, apiUrl, gatewayUrl)
}

func newIpfsStorage(opt IpfsOptions, apiUrl string, gatewayUrl string) (*IpfsStorage, error) {
	headers := map[string]string{}
	if opt.ProjectID != "" || opt.Secret != "" {
		headers["Authorization"] = httpclient.BasicAuth(opt.ProjectID, opt.Secret)
	}
	api, err := httpclient.New(apiUrl, httpclient.Config{
		Headers: headers,
		Timeout: 2 * time.Minute,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create ipfs api client")
	}
	gateway, err := httpclient.New(gatewayUrl, httpclient.Config{MaxRedirects: 5})
	if err != nil {
		return nil, errors.Wrap(err, "can't create ipfs gateway client")
	}

	return &IpfsStorage{
		api:        api,
		gateway:    gateway,
		gatewayUrl: gatewayUrl,
	}, nil
}

func (gw *IpfsStorage) Upload(ctx context.Context, data []byte, name string) (string, error) {
	if name == "" {
		name = "file"
	}
	resp, err := gw.api.Post(ctx, "/api/v0/add", httpclient.RequestOptions{
		Query: url.Values{"pin": []string{"true"}},
		Files: []httpclient.File{{Field: "file", Name: name, Content: data}},
	})
	if err != nil {
		return "", errors.Wrap(err, "can't upload to ipfs")
	}
	switch code := resp.StatusCode(); {
	case code == 401 || code == 403:
		return "", errors.Wrapf(errs.Unauthorized, "ipfs api rejected credentials with status %d", code)
	case !resp.IsSuccess():
		return "", errors.Errorf("ipfs upload of %q failed with status %d: %s", name, code, resp.Body())
	}

	var added ipfsAddResponse
	if err := resp.UnmarshalBody(&added); err != nil {
		return "", &UnmarshalError{body: string(resp.Body()), typeName: "ipfs add response", UnderlyingError: err}
	}
	if added.Hash == "" {
		return "", errors.Errorf("ipfs upload of %q returned no hash", name)
	}

	return ipfsScheme + added.Hash, nil
}

func (gw *IpfsStorage) UploadBatch(ctx context.Context, data [][]byte) ([]string, error) {
	return uploadBatch(ctx, gw, data)
}

func (gw *IpfsStorage) Get(ctx context.Context, uri string) ([]byte, error) {
	return getFromGateway(ctx, gw.gateway, uri)
}

// GatewayURL resolves an ipfs:// uri to its http gateway url.
func (gw *IpfsStorage) GatewayURL(uri string) string {
	return replaceIpfsWithGateway(uri, gw.gatewayUrl)
}

func uploadBatch(ctx context.Context, storage Storage, data [][]byte) ([]string, error) {
	uris := make([]string, len(data))
	g, ctx := errgroup.WithContext(ctx)
	for i, content := range data {
		i, content := i, content
		g.Go(func() error {
			uri, err := storage.Upload(ctx, content, "")
			if err != nil {
				return errors.Wrapf(err, "batch entry %d", i)
			}
			uris[i] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uris, nil
}

func getFromGateway(ctx context.Context, gateway *httpclient.Client, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return nil, errors.Wrapf(errs.InvalidArgument, "uri %q is not an ipfs uri", uri)
	}
	resp, err := gateway.Get(ctx, strings.TrimPrefix(uri, ipfsScheme), httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "can't fetch %q", uri)
	}
	if resp.StatusCode() == 404 {
		return nil, errors.Wrapf(errs.NotFound, "uri %q", uri)
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("gateway returned status %d for %q", resp.StatusCode(), uri)
	}
	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrapf(err, "can't read body of %q", uri)
	}
	return append([]byte(nil), body...), nil
}

func replaceIpfsWithGateway(uri string, gatewayUrl string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	return gatewayUrl + strings.TrimPrefix(uri, ipfsScheme)
}

// fetch downloads an absolute http(s) url.
func fetch(ctx context.Context, rawUrl string) ([]byte, error) {
	client, err := httpclient.New(rawUrl, httpclient.Config{MaxRedirects: 5})
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, "", httpclient.RequestOptions{})
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("status %d", resp.StatusCode())
	}
	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrap(err, "can't read body")
	}
	return append([]byte(nil), body...), nil
}

func fileNameFromURL(rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return "file"
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "file"
	}
	return name
}
