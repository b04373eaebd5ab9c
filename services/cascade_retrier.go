package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rrlogistics/logger"
)

const cascadeJobTimeout = 30 * time.Second

// Scheduler is the part of the job queue the retrier needs.
type Scheduler interface {
	Enqueue(job Job) error
	ScheduleJob(job Job, delay time.Duration)
}

// CascadeRetrier drives incomplete cascades to completion in the background.
// Attempt n waits n*delay; after maxAttempts the consignment is marked failed.
type CascadeRetrier struct {
	cascade     *CascadeCreator
	queue       Scheduler
	maxAttempts int
	delay       time.Duration
}

func NewCascadeRetrier(cascade *CascadeCreator, queue Scheduler, maxAttempts int, delay time.Duration) *CascadeRetrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &CascadeRetrier{cascade: cascade, queue: queue, maxAttempts: maxAttempts, delay: delay}
}

// Schedule queues the next attempt for a consignment that has made `attempts` so far.
func (r *CascadeRetrier) Schedule(consignmentID string, attempts int) {
	if attempts >= r.maxAttempts {
		r.fail(context.Background(), consignmentID, attempts)
		return
	}
	r.queue.ScheduleJob(r.job(consignmentID), r.delay*time.Duration(max(attempts, 1)))
}

// EnqueueNow queues an attempt without delay. Used by the reconciler.
func (r *CascadeRetrier) EnqueueNow(consignmentID string) error {
	return r.queue.Enqueue(r.job(consignmentID))
}

func (r *CascadeRetrier) job(consignmentID string) Job {
	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, cascadeJobTimeout)
		defer cancel()

		out, err := r.cascade.Resume(ctx, consignmentID)
		if err != nil {
			logger.Log.Warn("cascade retry: resume failed", zap.String("consignment_id", consignmentID), zap.Error(err))
			return
		}
		if out.Complete() {
			logger.Log.Info("cascade retry: consignment linked",
				zap.String("consignment_id", consignmentID), zap.Int("attempts", out.Attempts))
			return
		}
		r.Schedule(consignmentID, out.Attempts)
	}
}

func (r *CascadeRetrier) fail(ctx context.Context, consignmentID string, attempts int) {
	logger.Log.Error("cascade gave up", zap.String("consignment_id", consignmentID), zap.Int("attempts", attempts))
	if err := r.cascade.MarkFailed(ctx, consignmentID); err != nil {
		logger.Log.Warn("cascade: mark failed", zap.String("consignment_id", consignmentID), zap.Error(err))
	}
}
