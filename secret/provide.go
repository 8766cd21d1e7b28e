// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"emperror.dev/emperror"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigKey is the viper key holding the resolver settings.
const ConfigKey = "secrets"

// Config selects the resolver implementation.
type Config struct {
	// Static, when non-empty, replaces Secrets Manager with a fixed map.
	Static map[string]string
}

type resolverIn struct {
	fx.In
	Viper     *viper.Viper
	AWSConfig aws.Config
	Logger    *zap.Logger
}

// Provide makes a Resolver available to the container.
func Provide() fx.Option {
	return fx.Provide(
		func(in resolverIn) (Resolver, error) {
			var c Config
			if err := in.Viper.UnmarshalKey(ConfigKey, &c); err != nil {
				return nil, emperror.WrapWith(err, "decoding secrets config", "key", ConfigKey)
			}
			if len(c.Static) > 0 {
				in.Logger.Info("using static secret resolver")
				return Static(c.Static), nil
			}
			in.Logger.Info("using secrets manager resolver")
			return NewSecretsManager(in.AWSConfig), nil
		},
	)
}
