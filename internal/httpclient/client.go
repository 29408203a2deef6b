package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient fetches source pages with retries on transient failures.
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	logger       zerolog.Logger
	retryHandler *RetryHandler
}

func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	componentLogger := logger.With().Str("component", "HTTPClient").Logger()

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
		Proxy: http.ProxyFromEnvironment,
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			componentLogger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	return &HTTPClient{
		client:       client,
		config:       config,
		logger:       componentLogger,
		retryHandler: NewRetryHandler(config.Retry, componentLogger),
	}, nil
}

// Client exposes the configured *http.Client so crawlers can share its transport.
func (c *HTTPClient) Client() *http.Client {
	return c.client
}

// MaxContentSize is the body size limit in bytes, 0 when unlimited.
func (c *HTTPClient) MaxContentSize() int {
	return c.config.MaxContentSize
}

func (c *HTTPClient) UserAgent() string {
	return c.config.UserAgent
}

// Fetch performs a GET and returns the body of a 2xx response.
func (c *HTTPClient) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return c.retryHandler.DoWithRetry(ctx, rawURL, func() ([]byte, error) {
		return c.fetchOnce(ctx, rawURL)
	})
}

func (c *HTTPClient) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(rawURL, "request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug().Err(closeErr).Str("url", rawURL).Msg("Failed to close response body")
		}
	}()

	// One byte past the limit tells an oversized body apart from one that fits exactly.
	var body io.Reader = resp.Body
	if c.config.MaxContentSize > 0 {
		body = io.LimitReader(resp.Body, int64(c.config.MaxContentSize)+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(rawURL, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := data
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, string(snippet), rawURL)
	}

	if c.config.MaxContentSize > 0 && len(data) > c.config.MaxContentSize {
		c.logger.Warn().Str("url", rawURL).Int("max_content_bytes", c.config.MaxContentSize).Msg("Response body exceeds size limit")
		return nil, errorwrapper.NewValidationError("max_content_bytes", c.config.MaxContentSize,
			fmt.Sprintf("response from %s exceeds the limit", rawURL))
	}

	c.logger.Debug().Str("url", rawURL).Int("content_size", len(data)).Msg("Fetched source content")
	return data, nil
}
