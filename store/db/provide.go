// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"fmt"

	"emperror.dev/emperror"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/viper"
	"github.com/xmidt-org/apiconsumer/store"
	"github.com/xmidt-org/apiconsumer/store/db/metric"
	"github.com/xmidt-org/apiconsumer/store/inmem"
	"github.com/xmidt-org/apiconsumer/store/s3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigKey is the viper key holding the store selection.
const ConfigKey = "store"

// Store implementation names.
const (
	S3Type     = "s3"
	MemoryType = "memory"
)

type Configs struct {
	// Type is s3 (default) or memory.
	Type string
	S3   s3.Config
}

type SetupIn struct {
	fx.In
	Viper     *viper.Viper
	AWSConfig aws.Config
	Measures  metric.Measures
	Logger    *zap.Logger
}

func Provide() fx.Option {
	return fx.Options(
		metric.ProvideMetrics(),
		fx.Provide(
			SetupStore,
		),
	)
}

func SetupStore(in SetupIn) (store.S, error) {
	var configs Configs
	if err := in.Viper.UnmarshalKey(ConfigKey, &configs); err != nil {
		return nil, emperror.WrapWith(err, "decoding store config", "key", ConfigKey)
	}

	switch configs.Type {
	case "", S3Type:
		in.Logger.Info("using s3 store implementation")
		return s3.NewS3(in.AWSConfig, configs.S3, in.Measures, in.Logger), nil
	case MemoryType:
		in.Logger.Info("using in memory store implementation")
		return inmem.NewInMem(), nil
	}
	return nil, fmt.Errorf("unknown store type %q", configs.Type)
}
