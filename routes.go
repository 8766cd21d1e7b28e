// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xmidt-org/apiconsumer/ingest"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/httpaux"
	"github.com/xmidt-org/httpaux/erraux"
	"github.com/xmidt-org/httpaux/recovery"
	"github.com/xmidt-org/touchstone/touchhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const serverConfigKey = "server"

// Paths served by the local server. The invocation path is the one the Lambda
// runtime interface emulator listens on.
const (
	invocationPath = "/2015-03-31/functions/function/invocations"
	metricsPath    = "/metrics"
	healthPath     = "/health"
)

const (
	defaultAddress      = ":9000"
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 90 * time.Second
)

// ServerConfig configures the local invocation server.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type ServerIn struct {
	fx.In
	Config    ServerConfig
	Handler   *ingest.Handler
	Gatherer  prometheus.Gatherer
	Metrics   touchhttp.ServerInstrumenter `name:"servers.local.metrics"`
	Tracing   candlelight.Tracing
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// invokeResponse mirrors the payload of the deployed function.
type invokeResponse struct {
	Message string `json:"message"`
}

// BuildServer binds the local server to the application lifecycle.
func BuildServer(in ServerIn) {
	validateServerConfig(&in.Config)
	s := &http.Server{
		Addr:         in.Config.Address,
		Handler:      in.Metrics.Then(newRouter(in.Handler, in.Gatherer, in.Tracing)),
		ReadTimeout:  in.Config.ReadTimeout,
		WriteTimeout: in.Config.WriteTimeout,
	}

	in.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			l, err := net.Listen("tcp", s.Addr)
			if err != nil {
				return err
			}
			in.Logger.Info("serving invocations", zap.String("address", l.Addr().String()), zap.String("handler", in.Handler.Name()))
			go func() {
				if err := s.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
					in.Logger.Error("local server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: s.Shutdown,
	})
}

func validateServerConfig(c *ServerConfig) {
	if c.Address == "" {
		c.Address = defaultAddress
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
}

func newRouter(h *ingest.Handler, g prometheus.Gatherer, tracing candlelight.Tracing) http.Handler {
	router := mux.NewRouter()
	router.Use(otelmux.Middleware("server_local",
		otelmux.WithTracerProvider(tracing.TracerProvider()),
		otelmux.WithPropagators(tracing.Propagator()),
	))

	router.Handle(invocationPath, newInvokeHandler(h)).Methods(http.MethodPost)
	router.Handle(metricsPath, promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.Handle(healthPath, httpaux.ConstantHandler{StatusCode: http.StatusOK}).Methods(http.MethodGet)

	return alice.New(
		recovery.Middleware(recovery.WithStatusCode(http.StatusInternalServerError)),
		candlelight.EchoFirstTraceNodeInfo(tracing, false),
	).Then(router)
}

func newInvokeHandler(h *ingest.Handler) http.Handler {
	return kithttp.NewServer(
		invokeEndpoint(h),
		decodeInvokeRequest,
		kithttp.EncodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeInvokeError),
	)
}

func invokeEndpoint(h *ingest.Handler) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		msg, err := h.Invoke(ctx)
		if err != nil {
			return nil, &erraux.Error{Err: err, Code: statusOf(err)}
		}
		return invokeResponse{Message: msg}, nil
	}
}

// decodeInvokeRequest ignores the trigger payload, as the function does.
func decodeInvokeRequest(context.Context, *http.Request) (interface{}, error) {
	return nil, nil
}

func encodeInvokeError(_ context.Context, err error, rw http.ResponseWriter) {
	code := http.StatusInternalServerError
	var he *erraux.Error
	if errors.As(err, &he) {
		code, err = he.Code, he.Err
	}
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(code)
	json.NewEncoder(rw).Encode(invokeResponse{Message: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ingest.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, ingest.ErrUpstreamRequest),
		errors.Is(err, ingest.ErrCredentialResolution),
		errors.Is(err, ingest.ErrParse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
