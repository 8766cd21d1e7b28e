// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package awscfg loads the AWS SDK configuration shared by the S3 object store
// and the Secrets Manager resolver.
package awscfg

import (
	"context"

	"emperror.dev/emperror"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// ConfigKey is the viper key holding the AWS settings.
const ConfigKey = "aws"

// Writes and secret lookups are attempted once unless configured otherwise.
const defaultMaxAttempts = 1

// Config is the optional AWS override block. Inside Lambda every field is
// normally left empty and the execution role is used.
type Config struct {
	Region     string
	Endpoint   string
	Profile    string
	MaxAttempts int
	AccessKey  string
	SecretKey  string
}

// Load resolves an aws.Config from the default chain plus the given overrides.
// Static credentials are only used when both keys are set.
func Load(ctx context.Context, c Config) (aws.Config, error) {
	validateConfig(&c)

	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(c.MaxAttempts),
	}
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, emperror.WrapWith(err, "loading aws config", "region", c.Region, "profile", c.Profile)
	}
	if c.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(c.Endpoint)
	}
	return cfg, nil
}

func validateConfig(c *Config) {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
}

// Provide makes an aws.Config available to the container.
func Provide() fx.Option {
	return fx.Provide(
		func(v *viper.Viper) (aws.Config, error) {
			var c Config
			if err := v.UnmarshalKey(ConfigKey, &c); err != nil {
				return aws.Config{}, emperror.WrapWith(err, "decoding aws config", "key", ConfigKey)
			}
			return Load(context.Background(), c)
		},
	)
}
