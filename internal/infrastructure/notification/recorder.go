package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/talentops/recruiting-ops/internal/application/dispatcher"
	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"github.com/talentops/recruiting-ops/internal/domain/event"
	"go.uber.org/zap"
)

// Recorder turns status-change events into queued notification rows.
// The delivery worker picks them up later, so a slow or failing channel
// never delays the transition that produced the event.
type Recorder struct {
	notifications port.NotificationRepository
	logger        *zap.Logger
}

// NewRecorder creates a recorder backed by the given repository
func NewRecorder(notifications port.NotificationRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		notifications: notifications,
		logger:        logger,
	}
}

// Register subscribes the recorder to status-change events
func (r *Recorder) Register(d dispatcher.Dispatcher) {
	d.Subscribe(event.TypeStatusChanged, "notification.recorder", r.handleStatusChanged)
}

func (r *Recorder) handleStatusChanged(ctx context.Context, evt *event.Event) error {
	n := &entity.Notification{
		SelectionID:    evt.SelectionID,
		PreviousStatus: evt.PayloadString(event.KeyPreviousStatus),
		NewStatus:      evt.PayloadString(event.KeyNewStatus),
		ActorID:        evt.PayloadString(event.KeyActorID),
		Status:         entity.NotificationStatusPending,
		CreatedAt:      time.Now(),
	}

	if err := r.notifications.Create(ctx, n); err != nil {
		r.logger.Error("Failed to queue notification",
			zap.Int64("selection_id", evt.SelectionID),
			zap.String("new_status", n.NewStatus),
			zap.Error(err))
		return fmt.Errorf("failed to queue notification: %w", err)
	}

	r.logger.Debug("Notification queued",
		zap.Int64("selection_id", evt.SelectionID),
		zap.String("previous_status", n.PreviousStatus),
		zap.String("new_status", n.NewStatus))
	return nil
}
