package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pomscan/internal/config"
	"github.com/scan-io-git/pomscan/pkg/shared/errors"
	"github.com/scan-io-git/pomscan/pkg/shared/httpclient"
)

// service wraps a client to access different services.
type service struct {
	client *Client
}

// Client configures and manages access to the API, holding service implementations and an HTTP client.
type Client struct {
	HTTPClient *httpclient.Client
	BaseURL    string
	Logger     hclog.Logger
	Files      FilesService
}

// AuthInfo holds authentication details for Bitbucket access.
type AuthInfo struct {
	Username string // Username for Bitbucket access
	Token    string // Token for basic authentication
}

// resolveURL constructs the full URL by checking if the path is absolute or relative.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + path
}

// headersBuilder returns a common request builder with the necessary headers.
func (c *Client) headersBuilder(ctx context.Context) *resty.Request {
	return c.HTTPClient.RestyClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
}

// get sends a GET request using the client's base URL, path, and query parameters provided.
// Network failures are returned as TransportError.
func (c *Client) get(ctx context.Context, path string, queryParams map[string]string) (*resty.Response, error) {
	fullURL := c.resolveURL(path)
	response, err := c.headersBuilder(ctx).
		SetQueryParams(queryParams).
		Get(fullURL)
	if err != nil {
		return nil, errors.NewTransportError(http.MethodGet, fullURL, err)
	}
	return response, nil
}

// getRaw sends a GET request for non-JSON content and checks the status code.
func (c *Client) getRaw(ctx context.Context, path string) (*resty.Response, error) {
	fullURL := c.resolveURL(path)
	response, err := c.HTTPClient.RestyClient.R().
		SetContext(ctx).
		Get(fullURL)
	if err != nil {
		return nil, errors.NewTransportError(http.MethodGet, fullURL, err)
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}
	return response, nil
}

// checkStatus turns any non-2xx response into a TransportError, using the API error list when present.
func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
		return nil
	}

	method, url := http.MethodGet, ""
	if resp.Request != nil {
		method, url = resp.Request.Method, resp.Request.URL
	}

	var errorList ErrorList
	if err := json.Unmarshal(resp.Body(), &errorList); err == nil && len(errorList.Errors) > 0 {
		return errors.NewStatusError(method, url, resp.StatusCode(), fmt.Sprintf("%+v", errorList.Errors))
	}
	return errors.NewStatusError(method, url, resp.StatusCode(), resp.String())
}

// unmarshalResponse is a generic function to parse JSON body from response into the provided type.
// It also checks the HTTP response code and API error messages.
func unmarshalResponse[T any](resp *resty.Response, out *T) error {
	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// New initializes a new API client with configured services.
// baseURL is the REST API root, e.g. https://stash.example.com/rest/api/1.0.
func New(globalConfig *config.Config, logger hclog.Logger, baseURL string, auth AuthInfo) (*Client, error) {
	httpClient, err := httpclient.New(logger, globalConfig)
	if err != nil {
		logger.Error("failed to initialize HTTP client", "error", err)
		return nil, err
	}

	httpClient.RestyClient.
		SetBasicAuth(auth.Username, auth.Token)

	client := &Client{
		HTTPClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Logger:     logger,
	}

	client.Files = NewFilesService(client)

	return client, nil
}
