package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rrlogistics/logger"
	"rrlogistics/repository"
)

// CascadeReconciler finds consignments whose cascade was interrupted, for example
// by a crash between the consignment write and the retry, and queues them again.
type CascadeReconciler struct {
	consignments repository.ConsignmentRepository
	retrier      *CascadeRetrier
	interval     time.Duration
	batchSize    int64
}

func NewCascadeReconciler(consignments repository.ConsignmentRepository, retrier *CascadeRetrier, interval time.Duration) *CascadeReconciler {
	return &CascadeReconciler{
		consignments: consignments,
		retrier:      retrier,
		interval:     interval,
		batchSize:    50,
	}
}

// Start blocks until ctx is cancelled.
func (r *CascadeReconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	logger.Log.Info("cascade reconciler started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("cascade reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce queues every pending or degraded consignment older than one interval
// and returns how many were queued.
func (r *CascadeReconciler) RunOnce(ctx context.Context) int {
	stuck, err := r.consignments.ListUnlinked(ctx, time.Now().UTC().Add(-r.interval), r.batchSize)
	if err != nil {
		logger.Log.Warn("cascade reconciler: list failed", zap.Error(err))
		return 0
	}
	queued := 0
	for _, c := range stuck {
		if err := r.retrier.EnqueueNow(c.ID); err != nil {
			logger.Log.Warn("cascade reconciler: enqueue failed", zap.String("consignment_id", c.ID), zap.Error(err))
			break
		}
		queued++
	}
	if queued > 0 {
		logger.Log.Info("cascade reconciler: requeued consignments", zap.Int("count", queued))
	}
	return queued
}
