package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisPublisherChannels(t *testing.T) {
	p := &RedisPublisher{channel: "availability-events"}

	provider := NewEvent(EventProviderAvailabilityUpdated, "provider-1", nil, nil)
	assert.Equal(t, []string{
		"availability-events",
		"availability-events:provider:provider-1",
	}, p.channels(provider))

	serviceID := "service-1"
	service := NewEvent(EventServiceAvailabilityUpdated, "provider-1", &serviceID, nil)
	assert.Equal(t, []string{
		"availability-events",
		"availability-events:provider:provider-1",
		"availability-events:service:service-1",
	}, p.channels(service))
}
