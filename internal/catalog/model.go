package catalog

import (
	"time"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
)

var (
	ErrProviderNotFound = apperror.NotFound("provider not found")
	ErrServiceNotFound  = apperror.NotFound("service not found")
)

// Provider is the read model for a service provider account.
// Accounts and moderation live in other systems; the scheduling engine only
// needs existence, timezone and the active flag.
type Provider struct {
	ID        string
	Name      string
	Timezone  string
	Active    bool
	CreatedAt time.Time
}

// Service is the read model for a catalog service offered by a provider.
// DurationMinutes and Price are the lowest fallback tier when resolving
// effective scheduling settings.
type Service struct {
	ID              string
	ProviderID      string
	Name            string
	DurationMinutes *int
	BufferMinutes   *int
	Price           *float64
	Active          bool
	CreatedAt       time.Time
}
