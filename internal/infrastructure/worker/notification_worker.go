package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"go.uber.org/zap"
)

// NotificationWorkerConfig holds configuration for the notification worker
type NotificationWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultNotificationWorkerConfig returns default configuration
func DefaultNotificationWorkerConfig() NotificationWorkerConfig {
	return NotificationWorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    20,
	}
}

// NotificationWorker drains the pending notification queue and pushes
// each entry through the configured notifier. Delivery failures are
// recorded on the row and never surface to the caller that triggered
// the transition.
type NotificationWorker struct {
	config NotificationWorkerConfig

	notifications port.NotificationRepository
	notifier      port.Notifier
	logger        *zap.Logger

	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	isRunning      bool
	deliveredCount int
	failedCount    int
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	config NotificationWorkerConfig,
	notifications port.NotificationRepository,
	notifier port.Notifier,
	logger *zap.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		config:        config,
		notifications: notifications,
		notifier:      notifier,
		logger:        logger,
	}
}

// Start begins the worker polling loop
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("notification worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("NotificationWorker started",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize))

	go w.pollLoop()

	return nil
}

// Stop gracefully terminates the worker
func (w *NotificationWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}

	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	w.logger.Info("NotificationWorker stopped",
		zap.Int("delivered_count", w.deliveredCount),
		zap.Int("failed_count", w.failedCount))

	return nil
}

// Name returns the worker name for identification
func (w *NotificationWorker) Name() string {
	return "NotificationWorker"
}

func (w *NotificationWorker) pollLoop() {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Poll loop context cancelled")
			return

		case <-ticker.C:
			if err := w.deliverPending(w.ctx); err != nil {
				w.logger.Error("Failed to deliver pending notifications", zap.Error(err))
			}
		}
	}
}

// deliverPending pushes one batch of pending notifications through the
// notifier. Each row is marked SENT or FAILED individually.
func (w *NotificationWorker) deliverPending(ctx context.Context) error {
	pending, err := w.notifications.GetPending(ctx, w.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.Debug("Delivering pending notifications", zap.Int("count", len(pending)))

	for _, n := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.deliverOne(ctx, n)
	}

	return nil
}

func (w *NotificationWorker) deliverOne(ctx context.Context, n *entity.Notification) {
	if err := w.notifier.Deliver(ctx, n); err != nil {
		w.logger.Warn("Notification delivery failed",
			zap.Int64("notification_id", n.ID),
			zap.Int64("selection_id", n.SelectionID),
			zap.Error(err))

		if markErr := w.notifications.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
			w.logger.Error("Failed to mark notification as failed",
				zap.Int64("notification_id", n.ID),
				zap.Error(markErr))
		}

		w.mu.Lock()
		w.failedCount++
		w.mu.Unlock()
		return
	}

	if err := w.notifications.MarkSent(ctx, n.ID, time.Now()); err != nil {
		w.logger.Error("Failed to mark notification as sent",
			zap.Int64("notification_id", n.ID),
			zap.Error(err))
		return
	}

	w.mu.Lock()
	w.deliveredCount++
	w.mu.Unlock()
}
