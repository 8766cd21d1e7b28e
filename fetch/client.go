/**
 * Copyright 2021 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var (
	ErrProxyURLEmpty   = errors.New("proxy URL is required")
	ErrProxyURLInvalid = errors.New("proxy URL must be absolute")
)

var (
	errNewRequestFailure  = errors.New("failed creating an HTTP request")
	errDoRequestFailure   = errors.New("http client failed while sending request")
	errReadingBodyFailure = errors.New("failed while reading http response body")
)

const errWrappedFmt = "%w: %s"

// Config contains the settings of the client used to reach upstream APIs.
type Config struct {
	// Timeout bounds a whole request, including reading the body.
	// (Optional) Defaults to no timeout; the caller's context still applies.
	Timeout time.Duration

	// UserAgent is sent on every request. (Optional)
	UserAgent string

	// HTTPClient refers to the client that will be used to send requests.
	// (Optional) Defaults to a client with its own cloned default transport.
	HTTPClient *http.Client

	// Logger to be used by the client.
	// (Optional). By default a no op logger will be used.
	Logger *zap.Logger
}

// Response is the raw result of a GET.
type Response struct {
	Code int
	Body []byte
}

// Client issues unauthenticated GET requests.
type Client struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewClient builds a Client from config.
func NewClient(config Config) *Client {
	validateConfig(&config)
	return &Client{
		client:    config.HTTPClient,
		userAgent: config.UserAgent,
		logger:    config.Logger,
	}
}

// Fetch GETs endpoint and returns the status code and the full body. Non-2xx
// codes are not errors here; the caller decides what counts as success.
func (c *Client) Fetch(ctx context.Context, endpoint string) (Response, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, fmt.Errorf(errWrappedFmt, errNewRequestFailure, err.Error())
	}
	if c.userAgent != "" {
		r.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(r)
	if err != nil {
		return Response{}, fmt.Errorf(errWrappedFmt, errDoRequestFailure, err.Error())
	}
	defer resp.Body.Close()

	out := Response{Code: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf(errWrappedFmt, errReadingBodyFailure, err.Error())
	}
	out.Body = body

	c.logger.Debug("fetched upstream", zap.String("endpoint", endpoint), zap.Int("code", out.Code), zap.Int("bytes", len(body)))
	return out, nil
}

// WithProxy returns a copy of c whose HTTP and HTTPS traffic goes through
// proxyURL. The receiver is left untouched.
func (c *Client) WithProxy(proxyURL string) (*Client, error) {
	if proxyURL == "" {
		return nil, ErrProxyURLEmpty
	}
	// parse errors echo the input, which may hold credentials
	u, err := url.Parse(proxyURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrProxyURLInvalid
	}

	transport := baseTransport(c.client).Clone()
	transport.Proxy = http.ProxyURL(u)

	proxied := *c.client
	proxied.Transport = transport
	return &Client{
		client:    &proxied,
		userAgent: c.userAgent,
		logger:    c.logger.With(zap.Bool("proxied", true)),
	}, nil
}

func baseTransport(c *http.Client) *http.Transport {
	if t, ok := c.Transport.(*http.Transport); ok {
		return t
	}
	return http.DefaultTransport.(*http.Transport)
}

func validateConfig(config *Config) {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}
	if config.Timeout > 0 && config.HTTPClient.Timeout == 0 {
		config.HTTPClient.Timeout = config.Timeout
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
}
