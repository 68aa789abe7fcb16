package port

import (
	"context"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
)

// Notifier delivers a status-change notification to whatever channel
// the operations team uses. Delivery failures are the notifier's to log;
// they never reach the engine's caller.
type Notifier interface {
	Deliver(ctx context.Context, n *entity.Notification) error
}
