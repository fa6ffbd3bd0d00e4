package propagation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/notify"
	"github.com/bookli/scheduling-backend/internal/pkg/cache"
	"github.com/bookli/scheduling-backend/internal/pkg/keylock"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/slot"
)

// repairHorizonDays bounds how far ahead a change is materialized into slots.
// Matches the platform's maximum advance-booking window.
const repairHorizonDays = 30

// Propagator repairs generated slots after a schedule change and notifies
// downstream consumers. All repairs are best-effort: a failure is logged, the
// originating write has already committed.
//
// It satisfies the Propagator interfaces declared by the workinghours,
// blockedtime and serviceavail packages.
type Propagator struct {
	slots     slot.Repository
	generator *slot.Generator
	hours     slot.WorkingHoursSource
	blocks    slot.BlockedTimeSource
	cache     *cache.Cache
	publisher notify.Publisher
	logger    *zap.Logger
	locks     *keylock.KeyedMutex
	now       func() time.Time
}

func New(
	slots slot.Repository,
	generator *slot.Generator,
	hours slot.WorkingHoursSource,
	blocks slot.BlockedTimeSource,
	c *cache.Cache,
	publisher notify.Publisher,
	logger *zap.Logger,
) *Propagator {
	return &Propagator{
		slots:     slots,
		generator: generator,
		hours:     hours,
		blocks:    blocks,
		cache:     c,
		publisher: publisher,
		logger:    logger,
		locks:     keylock.New(),
		now:       time.Now,
	}
}

func (p *Propagator) horizon() (from, to string) {
	today := p.now()
	return timeutil.FormatDate(today), timeutil.FormatDate(today.AddDate(0, 0, repairHorizonDays))
}

// WorkingHoursChanged rebuilds future unbooked slots on the changed weekdays.
// Booked slots are left in place so existing appointments survive.
func (p *Propagator) WorkingHoursChanged(ctx context.Context, providerID string, weekdays []time.Weekday) {
	unlock := p.locks.Lock(providerID)
	defer unlock()

	from, to := p.horizon()

	for _, wd := range weekdays {
		wd := wd
		if err := p.slots.DeleteFutureUnbooked(ctx, providerID, from, &wd, nil); err != nil {
			p.logger.Error("working hours repair: delete failed",
				zap.String("provider_id", providerID),
				zap.Stringer("weekday", wd),
				zap.Error(err))
			return
		}
	}

	// Only the changed weekdays are rebuilt; slots on other days may have
	// been generated at a different step and regenerating over them would
	// interleave new windows with theirs.
	if _, err := p.generator.Generate(ctx, providerID, from, to, slot.GenerateOptions{
		SkipExistingSlots: true,
		Weekdays:          weekdays,
	}); err != nil {
		p.logger.Error("working hours repair: regenerate failed",
			zap.String("provider_id", providerID),
			zap.Error(err))
		return
	}

	p.finish(ctx, providerID, nil, notify.EventProviderAvailabilityUpdated, map[string]any{
		"weekdays": weekdayNames(weekdays),
	})
}

// BlockedTimeChanged re-evaluates the date's slots against the current set of
// active blocks. The old and new intervals are advisory; the repair always
// recomputes from stored state so overlapping blocks cannot leave a slot
// stuck blocked after one of them is lifted.
func (p *Propagator) BlockedTimeChanged(ctx context.Context, providerID, date string, oldInterval, newInterval *blockedtime.Interval) {
	unlock := p.locks.Lock(providerID)
	defer unlock()

	day, err := timeutil.ParseDate(date)
	if err != nil {
		p.logger.Error("blocked time repair: bad date",
			zap.String("provider_id", providerID),
			zap.String("date", date),
			zap.Error(err))
		return
	}

	// The break window keeps covering slots even after every block on the
	// date is lifted, so it joins the computation alongside the blocks.
	breakStart, breakEnd, hasBreak := p.breakWindow(ctx, providerID, day.Weekday())

	blocks, err := p.blocks.ActiveOn(ctx, providerID, date)
	if err != nil {
		p.logger.Error("blocked time repair: list blocks failed",
			zap.String("provider_id", providerID),
			zap.String("date", date),
			zap.Error(err))
		return
	}

	allDay := false
	var intervals []blockedtime.Interval
	for _, b := range blocks {
		iv := b.Interval()
		if iv.AllDay {
			allDay = true
		}
		intervals = append(intervals, iv)
	}

	slots, err := p.slots.ListByDate(ctx, providerID, date, nil)
	if err != nil {
		p.logger.Error("blocked time repair: list slots failed",
			zap.String("provider_id", providerID),
			zap.String("date", date),
			zap.Error(err))
		return
	}

	var toBlock, toFree []string
	for _, s := range slots {
		// Slots with bookings are an operator problem, not ours to touch.
		if s.CurrentBookings > 0 {
			continue
		}
		if s.Status != slot.StatusAvailable && s.Status != slot.StatusBlocked {
			continue
		}

		start, end := s.Window()
		covered := allDay
		if !covered && hasBreak && timeutil.Overlaps(start, end, breakStart, breakEnd) {
			covered = true
		}
		if !covered {
			for _, iv := range intervals {
				if !iv.AllDay && timeutil.Overlaps(start, end, iv.Start, iv.End) {
					covered = true
					break
				}
			}
		}

		switch {
		case covered && s.Status == slot.StatusAvailable:
			toBlock = append(toBlock, s.ID)
		case !covered && s.Status == slot.StatusBlocked:
			toFree = append(toFree, s.ID)
		}
	}

	if err := p.slots.UpdateStatus(ctx, toBlock, slot.StatusBlocked); err != nil {
		p.logger.Error("blocked time repair: block slots failed",
			zap.String("provider_id", providerID),
			zap.Error(err))
		return
	}
	if err := p.slots.UpdateStatus(ctx, toFree, slot.StatusAvailable); err != nil {
		p.logger.Error("blocked time repair: free slots failed",
			zap.String("provider_id", providerID),
			zap.Error(err))
		return
	}

	p.finish(ctx, providerID, nil, notify.EventTimeSlotsUpdated, map[string]any{
		"date":    date,
		"blocked": len(toBlock),
		"freed":   len(toFree),
	})
}

// ServiceSettingsChanged rebuilds the service's future unbooked slots with
// the newly effective settings.
func (p *Propagator) ServiceSettingsChanged(ctx context.Context, providerID, serviceID string) {
	unlock := p.locks.Lock(providerID)
	defer unlock()

	from, to := p.horizon()

	if err := p.slots.DeleteFutureUnbooked(ctx, providerID, from, nil, &serviceID); err != nil {
		p.logger.Error("service settings repair: delete failed",
			zap.String("provider_id", providerID),
			zap.String("service_id", serviceID),
			zap.Error(err))
		return
	}

	if _, err := p.generator.Generate(ctx, providerID, from, to, slot.GenerateOptions{
		ServiceID:         &serviceID,
		SkipExistingSlots: true,
	}); err != nil {
		p.logger.Error("service settings repair: regenerate failed",
			zap.String("provider_id", providerID),
			zap.String("service_id", serviceID),
			zap.Error(err))
		return
	}

	p.finish(ctx, providerID, &serviceID, notify.EventServiceAvailabilityUpdated, nil)
}

// breakWindow returns the provider's break for the weekday, if any. Lookup
// failures degrade to "no break"; the repair still runs against the blocks.
func (p *Propagator) breakWindow(ctx context.Context, providerID string, weekday time.Weekday) (start, end int, ok bool) {
	week, err := p.hours.Get(ctx, providerID)
	if err != nil {
		p.logger.Warn("blocked time repair: load working hours failed",
			zap.String("provider_id", providerID),
			zap.Error(err))
		return 0, 0, false
	}
	for _, wh := range week {
		if wh.Weekday == weekday && wh.Active {
			return wh.Break()
		}
	}
	return 0, 0, false
}

// finish invalidates cached reads and publishes the change event. Publish
// failures are logged and swallowed.
func (p *Propagator) finish(ctx context.Context, providerID string, serviceID *string, eventType notify.EventType, payload map[string]any) {
	p.cache.InvalidateProvider(ctx, providerID)

	event := notify.NewEvent(eventType, providerID, serviceID, payload)
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("event publish failed",
			zap.String("type", string(eventType)),
			zap.String("provider_id", providerID),
			zap.Error(err))
	}
}

func weekdayNames(weekdays []time.Weekday) []string {
	names := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		names = append(names, timeutil.WeekdayName(wd))
	}
	return names
}
