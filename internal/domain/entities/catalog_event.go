package entities

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEventType represents the type of catalog change
type CatalogEventType string

const (
	CatalogEventTypeUpserted CatalogEventType = "upserted"
)

// CatalogEvent announces that catalog records of one kind changed
type CatalogEvent struct {
	ID        string           `json:"id"`
	Kind      CandidateKind    `json:"kind"`
	EventType CatalogEventType `json:"event_type"`
	IDs       []string         `json:"ids"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewCatalogEvent creates a new catalog event
func NewCatalogEvent(kind CandidateKind, eventType CatalogEventType, ids []string) *CatalogEvent {
	return &CatalogEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		EventType: eventType,
		IDs:       ids,
		Timestamp: time.Now().UTC(),
	}
}
