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

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/apiconsumer/store"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	StoreOperationsCounter = "store_operations_total"
	StoreBytesCounter      = "store_bytes_total"
)

// Labels
const (
	OutcomeLabel = "outcome"
)

// Label Values
const (
	SuccessOutcome = "success"
	FailureOutcome = "failure"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: StoreOperationsCounter,
				Help: "The total number of object store operations by outcome.",
			},
			store.TypeLabel,
			OutcomeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: StoreBytesCounter,
				Help: "The total number of bytes successfully written to the object store.",
			},
			store.TypeLabel,
		),
	)
}

type Measures struct {
	fx.In
	Operations *prometheus.CounterVec `name:"store_operations_total"`
	Bytes      *prometheus.CounterVec `name:"store_bytes_total"`
}
