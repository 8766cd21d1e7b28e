package s3

import (
	"context"

	"github.com/xmidt-org/apiconsumer/store"
	"go.uber.org/zap"
)

type loggingService struct {
	store.S
	logger *zap.Logger
}

func newLoggingService(logger *zap.Logger, s store.S) store.S {
	return &loggingService{S: s, logger: logger}
}

func (s *loggingService) Put(ctx context.Context, obj store.Object) (err error) {
	defer func() {
		s.logger.Debug("s3 put", zap.String("bucket", obj.Bucket), zap.String("key", obj.Key),
			zap.Int("bytes", len(obj.Body)), zap.Error(err))
	}()
	err = s.S.Put(ctx, obj)
	return
}
