package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobsIngestedEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
	Count  int       `json:"count"`
	At     string    `json:"at"`
}

// IngestEvents adapts the hub to the ingest coordinator's event sink.
type IngestEvents struct {
	hub *Hub
}

func NewIngestEvents(hub *Hub) *IngestEvents {
	return &IngestEvents{hub: hub}
}

func (e *IngestEvents) JobsIngested(userID uuid.UUID, count int) {
	if e == nil || e.hub == nil || count <= 0 {
		return
	}

	evt := JobsIngestedEvent{
		Type:   "jobs_ingested",
		UserID: userID,
		Count:  count,
		At:     time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	e.hub.Publish(userID, b)
}
