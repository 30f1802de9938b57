package store

import (
	"context"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const bytesPerMB = 1024 * 1024

type usageCounter interface {
	UsageBytes(ctx context.Context, ownerID string) (int64, error)
}

// Quota enforces the per-user storage ceiling.
// Check and the following write are not atomic: two concurrent uploads by the
// same user can both pass and together exceed the limit.
type Quota struct {
	usage   usageCounter
	limitMB float64
}

func NewQuota(usage usageCounter, limitMB float64) *Quota {
	return &Quota{usage: usage, limitMB: limitMB}
}

func (q *Quota) LimitMB() float64 {
	return q.limitMB
}

// Usage reports the owner's consumption against the limit.
func (q *Quota) Usage(ctx context.Context, ownerID string) (*entity.StorageUsage, error) {
	used, err := q.usage.UsageBytes(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	usageMB := float64(used) / bytesPerMB
	return &entity.StorageUsage{
		UsageMB:     usageMB,
		LimitMB:     q.limitMB,
		RemainingMB: max(q.limitMB-usageMB, 0),
	}, nil
}

// Check returns *entity.QuotaExceededError when storing incomingBytes more would pass the limit.
func (q *Quota) Check(ctx context.Context, ownerID string, incomingBytes int64) (*entity.StorageUsage, error) {
	usage, err := q.Usage(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	attemptedMB := float64(incomingBytes) / bytesPerMB
	if usage.UsageMB+attemptedMB > q.limitMB {
		ctxzap.Warn(ctx, "storage quota exceeded",
			zap.Float64("usage_mb", usage.UsageMB),
			zap.Float64("attempted_mb", attemptedMB),
			zap.Float64("limit_mb", q.limitMB),
		)
		metrics.UploadRejections.WithLabelValues("quota").Inc()

		return usage, &entity.QuotaExceededError{
			LimitMB:     q.limitMB,
			UsageMB:     usage.UsageMB,
			AttemptedMB: attemptedMB,
			RemainingMB: usage.RemainingMB,
		}
	}

	return usage, nil
}
