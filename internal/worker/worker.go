package worker

import (
	"context"
	"errors"
	"github.com/rookgm/foodorder/internal/logger"
	"go.uber.org/zap"
	"time"
)

// ErrInvalidInterval is returned by Run for a non-positive sweep interval
var ErrInvalidInterval = errors.New("sweep interval must be positive")

// Sweeper drops idle rate limit buckets
type Sweeper interface {
	Sweep() int
}

// BucketSweeper is worker evicting idle buckets of rate limiters
type BucketSweeper struct {
	interval time.Duration
	limiters map[string]Sweeper
}

// NewBucketSweeper creates new bucket sweeper, limiters are keyed by name for logging
func NewBucketSweeper(interval time.Duration, limiters map[string]Sweeper) *BucketSweeper {
	return &BucketSweeper{interval: interval, limiters: limiters}
}

// Run sweeps limiters every interval until ctx is done
func (bs *BucketSweeper) Run(ctx context.Context) error {
	if bs.interval <= 0 {
		return ErrInvalidInterval
	}

	ticker := time.NewTicker(bs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("bucket sweeper is done")
			return nil
		case <-ticker.C:
			bs.sweep()
		}
	}
}

func (bs *BucketSweeper) sweep() {
	for name, l := range bs.limiters {
		if n := l.Sweep(); n > 0 {
			logger.Log.Debug("evicted idle buckets", zap.String("limiter", name), zap.Int("count", n))
		}
	}
}
