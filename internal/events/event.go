// Package events publishes ledger change notifications to external
// consumers, such as a search index over transactions.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Routing keys.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	CategoryRenamed    = "category.renamed"
	CategoryDeleted    = "category.deleted"
)

// Event is the JSON body of a published message. Consumers fetch the full
// record by ResourceID; Data carries only what identifies the change.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ResourceID string         `json:"resource_id"`
	Data       map[string]any `json:"data,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, resourceID string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event published by this package.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
