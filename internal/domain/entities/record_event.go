package entities

import (
	"time"

	"github.com/google/uuid"
)

// Collection names a kind of record held by the store
type Collection string

const (
	CollectionProducts   Collection = "products"
	CollectionCategories Collection = "categories"
	CollectionBlogs      Collection = "blogs"
	CollectionContacts   Collection = "contacts"
)

// RecordEventType represents the kind of mutation that happened
type RecordEventType string

const (
	RecordEventCreated RecordEventType = "created"
	RecordEventUpdated RecordEventType = "updated"
	RecordEventDeleted RecordEventType = "deleted"
)

// RecordEvent announces a successful mutation against the record store so
// list mirrors know to refetch
type RecordEvent struct {
	ID         string          `json:"id"`
	Collection Collection      `json:"collection"`
	RecordID   string          `json:"record_id"`
	EventType  RecordEventType `json:"event_type"`
	// Source identifies the editor process that made the change
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEvent creates a new record event
func NewRecordEvent(collection Collection, recordID string, eventType RecordEventType) *RecordEvent {
	return &RecordEvent{
		ID:         uuid.NewString(),
		Collection: collection,
		RecordID:   recordID,
		EventType:  eventType,
		Timestamp:  time.Now().UTC(),
	}
}
