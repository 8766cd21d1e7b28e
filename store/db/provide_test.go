// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/apiconsumer/store"
	"github.com/xmidt-org/apiconsumer/store/db/metric"
	"github.com/xmidt-org/apiconsumer/store/inmem"
	"go.uber.org/zap"
)

func TestSetupStore(t *testing.T) {
	tcs := []struct {
		Description string
		Type        string
		ExpectMem   bool
		ExpectErr   bool
	}{
		{Description: "Default is s3", Type: ""},
		{Description: "S3", Type: S3Type},
		{Description: "Memory", Type: MemoryType, ExpectMem: true},
		{Description: "Unknown", Type: "cassandra", ExpectErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			v := viper.New()
			v.Set(ConfigKey+".type", tc.Type)

			s, err := SetupStore(SetupIn{
				Viper:     v,
				AWSConfig: aws.Config{Region: "us-east-1"},
				Measures: metric.Measures{
					Operations: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ops", Help: "ops"}, []string{store.TypeLabel, metric.OutcomeLabel}),
					Bytes:      prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bytes", Help: "bytes"}, []string{store.TypeLabel}),
				},
				Logger: zap.NewNop(),
			})
			if tc.ExpectErr {
				assert.Error(err)
				assert.Nil(s)
				return
			}
			assert.NoError(err)
			assert.NotNil(s)
			_, isMem := s.(*inmem.InMem)
			assert.Equal(tc.ExpectMem, isMem)
		})
	}
}

func TestSetupStoreBadConfig(t *testing.T) {
	assert := assert.New(t)
	v := viper.New()
	v.Set(ConfigKey, "s3")

	s, err := SetupStore(SetupIn{
		Viper:  v,
		Logger: zap.NewNop(),
	})
	assert.Nil(s)
	assert.ErrorContains(err, "decoding store config")
}
