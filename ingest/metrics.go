// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	InvocationsCounter  = "ingest_invocations_total"
	RowsWrittenCounter  = "ingest_rows_written_total"
	BytesWrittenCounter = "ingest_bytes_written_total"
)

// Labels
const (
	HandlerLabel = "handler"
	OutcomeLabel = "outcome"
)

// Label Values
const (
	SuccessOutcome       = "success"
	ConfigurationOutcome = "configuration_error"
	CredentialOutcome    = "credential_error"
	UpstreamOutcome      = "upstream_error"
	ParseOutcome         = "parse_error"
	CoercionOutcome      = "coercion_error"
	StorageOutcome       = "storage_error"
	UnknownOutcome       = "unknown_error"
)

// ProvideMetrics registers the invocation metrics.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: InvocationsCounter,
				Help: "The total number of handler invocations by outcome.",
			},
			HandlerLabel,
			OutcomeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: RowsWrittenCounter,
				Help: "The total number of rows written by successful invocations.",
			},
			HandlerLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: BytesWrittenCounter,
				Help: "The total number of parquet bytes written by successful invocations.",
			},
			HandlerLabel,
		),
	)
}

// Measures holds the invocation metrics. Nil members are skipped.
type Measures struct {
	fx.In
	Invocations  *prometheus.CounterVec `name:"ingest_invocations_total"`
	RowsWritten  *prometheus.CounterVec `name:"ingest_rows_written_total"`
	BytesWritten *prometheus.CounterVec `name:"ingest_bytes_written_total"`
}

func (m Measures) observe(handler string, rows, size int, err error) {
	if m.Invocations != nil {
		m.Invocations.WithLabelValues(handler, outcomeOf(err)).Inc()
	}
	if err != nil {
		return
	}
	if m.RowsWritten != nil {
		m.RowsWritten.WithLabelValues(handler).Add(float64(rows))
	}
	if m.BytesWritten != nil {
		m.BytesWritten.WithLabelValues(handler).Add(float64(size))
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return SuccessOutcome
	case errors.Is(err, ErrConfiguration):
		return ConfigurationOutcome
	case errors.Is(err, ErrCredentialResolution):
		return CredentialOutcome
	case errors.Is(err, ErrUpstreamRequest):
		return UpstreamOutcome
	case errors.Is(err, ErrParse):
		return ParseOutcome
	case errors.Is(err, ErrSchemaCoercion):
		return CoercionOutcome
	case errors.Is(err, ErrStorageWrite):
		return StorageOutcome
	}
	return UnknownOutcome
}
