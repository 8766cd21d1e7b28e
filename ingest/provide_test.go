// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/apiconsumer/fetch"
	"github.com/xmidt-org/apiconsumer/model"
	"github.com/xmidt-org/apiconsumer/secret"
	"github.com/xmidt-org/apiconsumer/store/inmem"
	"go.uber.org/zap"
)

func TestNewHandlerSelection(t *testing.T) {
	tcs := []struct {
		Description    string
		Settings       map[string]string
		ExpectedName   string
		ExpectedSecret string
		ExpectedErr    error
	}{
		{
			Description:  "Default is direct",
			ExpectedName: DirectHandlerName,
		},
		{
			Description:  "Direct dropping missing fields",
			Settings:     map[string]string{HandlerKey: "Direct", MissingFieldsKey: "drop"},
			ExpectedName: DirectHandlerName,
		},
		{
			Description:    "Proxied",
			Settings:       map[string]string{HandlerKey: "proxied"},
			ExpectedName:   ProxiedHandlerName,
			ExpectedSecret: secret.DefaultProxySecretID,
		},
		{
			Description:    "Proxied with custom secret",
			Settings:       map[string]string{HandlerKey: "proxied", ProxySecretIDKey: "prod/randomuser/proxy"},
			ExpectedName:   ProxiedHandlerName,
			ExpectedSecret: "prod/randomuser/proxy",
		},
		{
			Description: "Unknown handler",
			Settings:    map[string]string{HandlerKey: "batch"},
			ExpectedErr: ErrConfiguration,
		},
		{
			Description: "Unknown missing policy",
			Settings:    map[string]string{MissingFieldsKey: "ignore"},
			ExpectedErr: ErrConfiguration,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			v := viper.New()
			for k, val := range tc.Settings {
				v.Set(k, val)
			}

			h, err := NewHandler(handlerIn{
				Viper:    v,
				Client:   fetch.NewClient(fetch.Config{}),
				Resolver: secret.Static{},
				Store:    inmem.NewInMem(),
				Logger:   zap.NewNop(),
			})
			if tc.ExpectedErr != nil {
				assert.Nil(h)
				assert.ErrorIs(err, tc.ExpectedErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.ExpectedName, h.Name())
			assert.Equal(tc.ExpectedSecret, h.secretID)
			if tc.ExpectedName == ProxiedHandlerName {
				assert.NotNil(h.proxy)
				assert.Nil(h.fetcher)
			} else {
				assert.NotNil(h.fetcher)
				assert.Nil(h.proxy)
			}
		})
	}
}

func TestDirectSchema(t *testing.T) {
	assert := assert.New(t)
	s, err := directSchema("")
	assert.NoError(err)
	assert.Equal(model.MissingFill, s.Missing)
	assert.Equal(JSONPlaceholderSchema.Columns, s.Columns)

	s, err = directSchema("DROP")
	assert.NoError(err)
	assert.Equal(model.MissingDrop, s.Missing)
	assert.Equal(model.MissingFill, JSONPlaceholderSchema.Missing)
}
