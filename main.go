/**
 * Copyright 2020 Comcast Cable Communications Management, LLC
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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/apiconsumer/awscfg"
	"github.com/xmidt-org/apiconsumer/fetch"
	"github.com/xmidt-org/apiconsumer/ingest"
	"github.com/xmidt-org/apiconsumer/secret"
	"github.com/xmidt-org/apiconsumer/store/db"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	applicationName = "apiconsumer"
)

var (
	GitCommit = "undefined"
	Version   = "undefined"
	BuildTime = "undefined"
)

func main() {
	v, logger, err := setup(os.Args[1:])
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var h *ingest.Handler
	app := fx.New(
		arrange.LoggerFunc(logger.Sugar().Infof),
		arrange.ForViper(v),
		fx.Supply(logger, v),
		touchstone.Provide(),
		awscfg.Provide(),
		fetch.Provide(),
		secret.Provide(),
		db.Provide(),
		ingest.Provide(),
		fx.Provide(
			func(v *viper.Viper) (touchstone.Config, error) {
				var config touchstone.Config
				err := v.UnmarshalKey("prometheus", &config)
				return config, err
			},
		),
		fx.Populate(&h),
		fx.Options(serveOptions(v)...),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch {
	case v.GetBool(serveKey):
		app.Run()
	case v.GetBool(onceKey):
		os.Exit(runOnce(h, logger))
	default:
		lambda.Start(h.Invoke)
	}
}

// serveOptions adds the local invocation server when --serve is set.
func serveOptions(v *viper.Viper) []fx.Option {
	if !v.GetBool(serveKey) {
		return nil
	}
	return []fx.Option{
		provideMetrics(),
		fx.Provide(
			candlelight.New,
			func(v *viper.Viper) (candlelight.Config, error) {
				var config candlelight.Config
				err := v.UnmarshalKey("tracing", &config)
				if err != nil {
					return candlelight.Config{}, err
				}
				config.ApplicationName = applicationName
				return config, nil
			},
			func(v *viper.Viper) (ServerConfig, error) {
				var config ServerConfig
				err := v.UnmarshalKey(serverConfigKey, &config)
				return config, err
			},
		),
		fx.Invoke(BuildServer),
	}
}

// runOnce performs a single invocation and returns the process exit code.
func runOnce(h *ingest.Handler, logger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msg, err := h.Invoke(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Info(msg, zap.String("handler", h.Name()))
	return 0
}
