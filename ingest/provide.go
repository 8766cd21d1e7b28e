// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/xmidt-org/apiconsumer/fetch"
	"github.com/xmidt-org/apiconsumer/model"
	"github.com/xmidt-org/apiconsumer/secret"
	"github.com/xmidt-org/apiconsumer/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Keys selecting and tuning the handler served by this process.
const (
	HandlerKey       = "HANDLER"
	ProxySecretIDKey = "PROXY_SECRET_ID"
	MissingFieldsKey = "MISSING_FIELDS"
)

// Values of MissingFieldsKey.
const (
	MissingFill = "fill"
	MissingDrop = "drop"
)

type handlerIn struct {
	fx.In
	Viper    *viper.Viper
	Client   *fetch.Client
	Resolver secret.Resolver
	Store    store.S
	Logger   *zap.Logger
	Measures Measures
}

// Provide registers the metrics and the *Handler chosen by HandlerKey.
func Provide() fx.Option {
	return fx.Options(
		ProvideMetrics(),
		fx.Provide(NewHandler),
	)
}

// NewHandler builds the direct or proxied handler from in.Viper.
func NewHandler(in handlerIn) (*Handler, error) {
	schema, err := directSchema(in.Viper.GetString(MissingFieldsKey))
	if err != nil {
		return nil, err
	}

	config := Config{
		Source:   in.Viper,
		Fetcher:  in.Client,
		Store:    in.Store,
		Schema:   schema,
		Logger:   in.Logger,
		Measures: in.Measures,
	}

	switch name := strings.ToLower(in.Viper.GetString(HandlerKey)); name {
	case "", DirectHandlerName:
		in.Logger.Info("serving direct handler")
		return NewDirectHandler(config)
	case ProxiedHandlerName:
		in.Logger.Info("serving proxied handler")
		return NewProxiedHandler(config, ProxyConfig{
			Proxy:    ClientProxy(in.Client),
			Resolver: in.Resolver,
			SecretID: in.Viper.GetString(ProxySecretIDKey),
		})
	default:
		return nil, ConfigurationError{Field: HandlerKey, Reason: fmt.Sprintf("oneof %s %s", DirectHandlerName, ProxiedHandlerName)}
	}
}

// ClientProxy adapts fetch.Client.WithProxy to a ProxyFetcherFunc.
func ClientProxy(c *fetch.Client) ProxyFetcherFunc {
	return func(proxyURL string) (HTTPFetcher, error) {
		pc, err := c.WithProxy(proxyURL)
		if err != nil {
			return nil, err
		}
		return pc, nil
	}
}

func directSchema(missing string) (model.Schema, error) {
	schema := JSONPlaceholderSchema
	switch strings.ToLower(missing) {
	case "", MissingFill:
		schema.Missing = model.MissingFill
	case MissingDrop:
		schema.Missing = model.MissingDrop
	default:
		return model.Schema{}, ConfigurationError{Field: MissingFieldsKey, Reason: "oneof fill drop"}
	}
	return schema, nil
}
