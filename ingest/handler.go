// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/xmidt-org/apiconsumer/columnar"
	"github.com/xmidt-org/apiconsumer/fetch"
	"github.com/xmidt-org/apiconsumer/model"
	"github.com/xmidt-org/apiconsumer/secret"
	"github.com/xmidt-org/apiconsumer/store"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// SuccessMessage is returned by every invocation that stored its object.
const SuccessMessage = "request successfully"

// Handler names, used in logs and metric labels.
const (
	DirectHandlerName  = "direct"
	ProxiedHandlerName = "proxied"
)

const (
	resultsField   = "results"
	postcodeColumn = "location_postcode"
)

var (
	errNilSource   = errors.New("config source is required")
	errNilFetcher  = errors.New("fetcher is required")
	errNilStore    = errors.New("store is required")
	errNilProxy    = errors.New("proxy fetcher factory is required")
	errNilResolver = errors.New("secret resolver is required")
)

// HTTPFetcher GETs an endpoint. *fetch.Client satisfies it.
type HTTPFetcher interface {
	Fetch(ctx context.Context, endpoint string) (fetch.Response, error)
}

// ProxyFetcherFunc returns a fetcher that routes through proxyURL.
type ProxyFetcherFunc func(proxyURL string) (HTTPFetcher, error)

// Config holds what both handlers share.
type Config struct {
	// Source supplies the endpoint, bucket and prefix on every invocation.
	Source ConfigSource

	// Fetcher is used as is by the direct handler.
	Fetcher HTTPFetcher

	Store store.S

	// Keys generates object keys. (Optional)
	Keys KeyGenerator

	// Schema is the column layout enforced by the direct handler.
	// (Optional) Defaults to JSONPlaceholderSchema.
	Schema model.Schema

	// Logger to be used by the handler.
	// (Optional). By default a no op logger will be used.
	Logger *zap.Logger

	// Measures are the invocation metrics. (Optional)
	Measures Measures
}

// ProxyConfig holds the extra dependencies of the proxied handler.
type ProxyConfig struct {
	// Proxy creates the fetcher for the resolved proxy URL.
	Proxy ProxyFetcherFunc

	Resolver secret.Resolver

	// SecretID names the proxy secret.
	// (Optional) Defaults to secret.DefaultProxySecretID.
	SecretID string
}

// Handler runs one fetch, flatten, serialize and store pass per invocation.
// It holds no per-invocation state and may be invoked concurrently.
type Handler struct {
	name     string
	source   ConfigSource
	fetcher  HTTPFetcher
	proxy    ProxyFetcherFunc
	resolver secret.Resolver
	secretID string
	records  func(root any) ([]object, error)
	shape    func(rs recordSet) (model.Table, error)
	store    store.S
	keys     KeyGenerator
	logger   *zap.Logger
	measures Measures
}

// NewDirectHandler returns the handler that flattens the whole response body
// and coerces it to the configured schema.
func NewDirectHandler(config Config) (*Handler, error) {
	if config.Fetcher == nil {
		return nil, errNilFetcher
	}
	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	schema := config.Schema
	if len(schema.Columns) == 0 {
		schema = JSONPlaceholderSchema
	}

	return &Handler{
		name:    DirectHandlerName,
		source:  config.Source,
		fetcher: config.Fetcher,
		records: rootRecords,
		shape: func(rs recordSet) (model.Table, error) {
			return applySchema(rs, schema)
		},
		store:    config.Store,
		keys:     config.Keys,
		logger:   config.Logger.With(zap.String("handler", DirectHandlerName)),
		measures: config.Measures,
	}, nil
}

// NewProxiedHandler returns the handler that fetches through a proxy resolved
// from the secret store and flattens the results array of the response.
func NewProxiedHandler(config Config, pc ProxyConfig) (*Handler, error) {
	if pc.Proxy == nil {
		return nil, errNilProxy
	}
	if pc.Resolver == nil {
		return nil, errNilResolver
	}
	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	if pc.SecretID == "" {
		pc.SecretID = secret.DefaultProxySecretID
	}

	return &Handler{
		name:     ProxiedHandlerName,
		source:   config.Source,
		proxy:    pc.Proxy,
		resolver: pc.Resolver,
		secretID: pc.SecretID,
		records:  resultsRecords,
		shape: func(rs recordSet) (model.Table, error) {
			table, err := inferTable(rs)
			if err != nil {
				return model.Table{}, err
			}
			return forceString(table, rs, postcodeColumn)
		},
		store:    config.Store,
		keys:     config.Keys,
		logger:   config.Logger.With(zap.String("handler", ProxiedHandlerName)),
		measures: config.Measures,
	}, nil
}

func validateConfig(config *Config) error {
	if config.Source == nil {
		return errNilSource
	}
	if config.Store == nil {
		return errNilStore
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	return nil
}

// Name is either DirectHandlerName or ProxiedHandlerName.
func (h *Handler) Name() string {
	return h.name
}

// Invoke runs a single invocation. The returned error is one of the typed
// errors of this package.
func (h *Handler) Invoke(ctx context.Context) (string, error) {
	inv := newInvocation(h.logger.With(zap.String("invocation", invocationID(ctx))))
	key, rows, size, err := h.run(ctx, inv)
	h.measures.observe(h.name, rows, size, err)
	if err != nil {
		return "", inv.fail(err)
	}
	inv.advance(Done)
	inv.logger.Info("object stored", zap.String("key", key), zap.Int("rows", rows), zap.Int("bytes", size))
	return SuccessMessage, nil
}

func (h *Handler) run(ctx context.Context, inv *invocation) (string, int, int, error) {
	config, err := LoadInvocationConfig(h.source)
	if err != nil {
		return "", 0, 0, err
	}
	inv.advance(ConfigValidated)

	fetcher := h.fetcher
	if h.proxy != nil {
		fetcher, err = h.proxiedFetcher(ctx)
		if err != nil {
			return "", 0, 0, err
		}
		inv.advance(CredentialResolved)
	}

	resp, err := fetcher.Fetch(ctx, config.Endpoint)
	if err != nil {
		return "", 0, 0, UpstreamRequestError{Code: resp.Code, Endpoint: config.Endpoint, Err: err}
	}
	if resp.Code < 200 || resp.Code >= 400 {
		return "", 0, 0, UpstreamRequestError{Code: resp.Code, Endpoint: config.Endpoint}
	}
	inv.advance(Fetched)

	root, err := decodeBody(resp.Body)
	if err != nil {
		return "", 0, 0, err
	}
	records, err := h.records(root)
	if err != nil {
		return "", 0, 0, err
	}
	rs := flatten(records)
	inv.advance(Flattened)

	table, err := h.shape(rs)
	if err != nil {
		return "", 0, 0, err
	}
	inv.advance(TypeCoerced)

	body, err := columnar.Encode(table)
	if err != nil {
		return "", 0, 0, SchemaCoercionError{Err: err}
	}
	inv.advance(Serialized)

	key := h.keys.Next(config.Prefix).String()
	err = h.store.Put(ctx, store.Object{
		Bucket:      config.Bucket,
		Key:         key,
		ContentType: store.ParquetContentType,
		Body:        body,
	})
	if err != nil {
		return "", 0, 0, StorageWriteError{Bucket: config.Bucket, Key: key, Err: err}
	}
	inv.advance(Stored)
	return key, len(table.Rows), len(body), nil
}

// proxiedFetcher resolves the proxy secret. The URL itself is never logged.
func (h *Handler) proxiedFetcher(ctx context.Context) (HTTPFetcher, error) {
	cred, err := secret.ResolveProxy(ctx, h.resolver, h.secretID)
	if err != nil {
		return nil, CredentialResolutionError{Secret: h.secretID, Err: err}
	}
	f, err := h.proxy(cred.URL)
	if err != nil {
		return nil, CredentialResolutionError{Secret: h.secretID, Err: err}
	}
	return f, nil
}

func invocationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
