package propagation

import (
	"context"
	"time"

	"github.com/bookli/scheduling-backend/internal/blockedtime"
)

// NoopPropagator discards change notifications. Used for read-only service
// instances that exist only to feed the slot generator, and in tests.
type NoopPropagator struct{}

func Noop() NoopPropagator { return NoopPropagator{} }

func (NoopPropagator) WorkingHoursChanged(context.Context, string, []time.Weekday) {}

func (NoopPropagator) BlockedTimeChanged(context.Context, string, string, *blockedtime.Interval, *blockedtime.Interval) {
}

func (NoopPropagator) ServiceSettingsChanged(context.Context, string, string) {}
