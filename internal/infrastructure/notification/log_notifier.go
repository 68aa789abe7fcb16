package notification

import (
	"context"

	"github.com/talentops/recruiting-ops/internal/application/port"
	"github.com/talentops/recruiting-ops/internal/domain/entity"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the structured log. It stands in
// for a real channel (email, chat webhook) in development and tests.
type LogNotifier struct {
	logger *zap.Logger
}

var _ port.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Deliver logs the notification and reports success
func (n *LogNotifier) Deliver(ctx context.Context, notif *entity.Notification) error {
	actor := notif.ActorID
	if actor == "" {
		actor = "system"
	}
	n.logger.Info("Selection status changed",
		zap.Int64("selection_id", notif.SelectionID),
		zap.String("previous_status", notif.PreviousStatus),
		zap.String("new_status", notif.NewStatus),
		zap.String("actor", actor))
	return nil
}
