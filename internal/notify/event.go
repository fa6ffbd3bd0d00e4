package notify

import "time"

type EventType string

const (
	EventServiceAvailabilityUpdated  EventType = "service-availability-updated"
	EventTimeSlotsUpdated            EventType = "time-slots-updated"
	EventProviderAvailabilityUpdated EventType = "provider-availability-updated"
)

// Event describes an availability change for downstream consumers (search
// indexing, client notifications). Payload is event-specific detail.
type Event struct {
	Type       EventType      `json:"type"`
	ProviderID string         `json:"provider_id"`
	ServiceID  *string        `json:"service_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func NewEvent(t EventType, providerID string, serviceID *string, payload map[string]any) Event {
	return Event{
		Type:       t,
		ProviderID: providerID,
		ServiceID:  serviceID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}
