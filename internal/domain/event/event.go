package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Event is an in-process domain event. Status-change events carry the
// previous/new status pair in the payload.
type Event struct {
	ID          string                 `json:"id"`
	Type        Type                   `json:"type"`
	SelectionID int64                  `json:"selection_id"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Payload keys used by status-change events
const (
	KeyPreviousStatus = "previous_status"
	KeyNewStatus      = "new_status"
	KeyActorID        = "actor_id"
)

// NewEvent creates a new domain event with a generated ID and timestamp
func NewEvent(eventType Type, selectionID int64, payload map[string]interface{}) *Event {
	return &Event{
		ID:          generateID(),
		Type:        eventType,
		SelectionID: selectionID,
		Payload:     payload,
		Timestamp:   time.Now(),
	}
}

// NewStatusChanged builds the event emitted after every committed
// transition.
func NewStatusChanged(selectionID int64, previousStatus, newStatus, actorID string) *Event {
	return NewEvent(TypeStatusChanged, selectionID, map[string]interface{}{
		KeyPreviousStatus: previousStatus,
		KeyNewStatus:      newStatus,
		KeyActorID:        actorID,
	})
}

// PayloadString retrieves a string value from the payload
func (e *Event) PayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// generateID creates a unique ID using timestamp and random bytes
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
