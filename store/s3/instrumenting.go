package s3

import (
	"context"

	"github.com/xmidt-org/apiconsumer/store"
	"github.com/xmidt-org/apiconsumer/store/db/metric"
)

type instrumentingService struct {
	store.S
	measures metric.Measures
}

func newInstrumentingService(measures metric.Measures, s store.S) store.S {
	return &instrumentingService{measures: measures, S: s}
}

func (s *instrumentingService) Put(ctx context.Context, obj store.Object) error {
	err := s.S.Put(ctx, obj)
	if err != nil {
		s.measures.Operations.WithLabelValues(store.PutType, metric.FailureOutcome).Inc()
		return err
	}
	s.measures.Operations.WithLabelValues(store.PutType, metric.SuccessOutcome).Inc()
	s.measures.Bytes.WithLabelValues(store.PutType).Add(float64(len(obj.Body)))
	return nil
}
