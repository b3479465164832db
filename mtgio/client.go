package mtgio

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"time"
)

// Version is current version of this client.
const Version = "1.0.0"

const (
	apiEndpoint = "https://api.magicthegathering.io/v1/cards"
)

func newDefaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       60 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
		},
	}
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

var defaultHTTPClient HTTPClient = newDefaultHTTPClient()

// Client is the low-level client for the card catalog API. It builds
// request URLs, performs the GET and classifies the outcome; it never
// interprets response bodies.
type Client struct {
	apiEndpoint string

	// HTTPClient is the HTTP client used for making requests against the
	// magicthegathering.io API. You can use either *http.Client here, or
	// your own implementation.
	HTTPClient HTTPClient
}

// ClientOptions allows for options to be passed into the Client for customization
type ClientOptions func(*Client)

// NewClient creates an API client
func NewClient(options ...ClientOptions) *Client {
	client := Client{
		apiEndpoint: apiEndpoint,
		HTTPClient:  defaultHTTPClient,
	}

	for _, opt := range options {
		opt(&client)
	}

	return &client
}

// WithAPIEndpoint allows for a custom API endpoint to be passed into the client
func WithAPIEndpoint(endpoint string) ClientOptions {
	return func(c *Client) {
		c.apiEndpoint = endpoint
	}
}

// WithHTTPClient replaces the transport used for requests.
func WithHTTPClient(hc HTTPClient) ClientOptions {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// GetCardByID fetches a single card by its numerical id.
func (c *Client) GetCardByID(ctx context.Context, id string) (*http.Response, error) {
	return c.get(ctx, fmt.Sprintf("/%s", id))
}

// GetCardsByName fetches cards matching an exact name. The name is wrapped
// in literal quote characters inside the query string; the API expects the
// quotes for exact matching. No escaping is applied to the name itself
// beyond standard URL query encoding.
func (c *Client) GetCardsByName(ctx context.Context, name string) (*http.Response, error) {
	return c.get(ctx, fmt.Sprintf("?name=%s", url.QueryEscape(`"`+name+`"`)))
}

// GetCardsByPage fetches one page of the card listing. Pagination and
// rate-limit figures are carried in the response headers, see PageHeaderFrom.
func (c *Client) GetCardsByPage(ctx context.Context, page string) (*http.Response, error) {
	return c.get(ctx, fmt.Sprintf("?page=%s", page))
}

const (
	userAgentHeader = "mtg-bot/" + Version
)

func (c *Client) prepRequest(req *http.Request) {
	req.Header.Set("User-Agent", userAgentHeader)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiEndpoint+path, nil)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}

	c.prepRequest(req)

	resp, err := c.HTTPClient.Do(req)

	return c.checkResponse(resp, err)
}

func (c *Client) checkResponse(resp *http.Response, err error) (*http.Response, error) {
	if err != nil {
		return resp, &TransportError{Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &RequestError{StatusCode: resp.StatusCode}
	}

	return resp, nil
}
