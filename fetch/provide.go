// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"emperror.dev/emperror"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigKey is the viper key holding the upstream client settings.
const ConfigKey = "fetch"

type clientIn struct {
	fx.In
	Viper  *viper.Viper
	Logger *zap.Logger
}

// Provide builds the shared upstream Client.
func Provide() fx.Option {
	return fx.Provide(
		func(in clientIn) (*Client, error) {
			var c Config
			if err := in.Viper.UnmarshalKey(ConfigKey, &c); err != nil {
				return nil, emperror.WrapWith(err, "decoding fetch config", "key", ConfigKey)
			}
			c.Logger = in.Logger
			return NewClient(c), nil
		},
	)
}
