package slot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

// maxGenerateDays caps one generation call; longer ranges are rejected rather
// than tying up a request for minutes.
const maxGenerateDays = 366

// WorkingHoursSource supplies the provider's weekly template.
type WorkingHoursSource interface {
	Get(ctx context.Context, providerID string) ([]*workinghours.WorkingHours, error)
}

// BlockedTimeSource supplies the blocks that apply to a concrete date,
// recurrence already resolved.
type BlockedTimeSource interface {
	ActiveOn(ctx context.Context, providerID, date string) ([]*blockedtime.BlockedTime, error)
}

// EffectiveSettingsSource resolves per-service scheduling parameters.
type EffectiveSettingsSource interface {
	GetEffective(ctx context.Context, providerID, serviceID string) (*serviceavail.EffectiveSettings, error)
}

// GenerateOptions tunes one generation run. Zero-valued numeric fields fall
// back to the effective settings (service-specific) or platform defaults.
// BufferMinutes is a pointer so an explicit zero reads as "no buffer" rather
// than "unset".
type GenerateOptions struct {
	ServiceID           *string
	SlotDurationMinutes int
	BufferMinutes       *int
	MaxBookings         int
	SkipExistingSlots   bool

	// Weekdays, when non-empty, restricts generation to the listed weekdays.
	Weekdays []time.Weekday
}

// Generator walks a provider's calendar and materializes bookable time slots
// from working hours, blocked times and effective service settings.
type Generator struct {
	hours    WorkingHoursSource
	blocks   BlockedTimeSource
	settings EffectiveSettingsSource
	repo     Repository
}

func NewGenerator(hours WorkingHoursSource, blocks BlockedTimeSource, settings EffectiveSettingsSource, repo Repository) *Generator {
	return &Generator{hours: hours, blocks: blocks, settings: settings, repo: repo}
}

// Generate produces the bookable slots for [fromDate, toDate] and persists
// them in one batch. With SkipExistingSlots the call is idempotent: existing
// slots are never duplicated and booked slots are never touched.
func (g *Generator) Generate(ctx context.Context, providerID, fromDate, toDate string, opts GenerateOptions) ([]*TimeSlot, error) {
	from, err := timeutil.ParseDate(fromDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	to, err := timeutil.ParseDate(toDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	if int(to.Sub(from).Hours()/24) > maxGenerateDays {
		return nil, ErrRangeTooLarge
	}

	week, err := g.hours.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	byWeekday := make(map[time.Weekday]*workinghours.WorkingHours, len(week))
	for _, wh := range week {
		byWeekday[wh.Weekday] = wh
	}

	var eff *serviceavail.EffectiveSettings
	if opts.ServiceID != nil {
		eff, err = g.settings.GetEffective(ctx, providerID, *opts.ServiceID)
		if err != nil {
			return nil, err
		}
	}

	duration, buffer, prep, cleanup := resolveStep(opts, eff)
	maxBookings := opts.MaxBookings
	if maxBookings <= 0 {
		if eff != nil {
			maxBookings = eff.MaxBookingsPerDay
		} else {
			maxBookings = 1
		}
	}

	var existing map[string][]occupied
	if opts.SkipExistingSlots {
		existing, err = g.existingWindows(ctx, providerID, fromDate, toDate)
		if err != nil {
			return nil, err
		}
	}

	wanted := weekdaySet(opts.Weekdays)

	var generated []*TimeSlot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if wanted != nil && !wanted[day.Weekday()] {
			continue
		}
		slots, err := g.generateDay(ctx, providerID, day, byWeekday[day.Weekday()], eff, dayParams{
			duration:    duration,
			buffer:      buffer,
			prep:        prep,
			cleanup:     cleanup,
			maxBookings: maxBookings,
			serviceID:   opts.ServiceID,
			existing:    existing,
		})
		if err != nil {
			return nil, err
		}
		generated = append(generated, slots...)
	}

	if err := g.repo.CreateBatch(ctx, generated); err != nil {
		return nil, err
	}
	return generated, nil
}

type dayParams struct {
	duration    int
	buffer      int
	prep        int
	cleanup     int
	maxBookings int
	serviceID   *string
	existing    map[string][]occupied
}

// occupied is a stored slot's interval; regeneration must not overlap it.
type occupied struct {
	start, end int
}

func (g *Generator) generateDay(
	ctx context.Context,
	providerID string,
	day time.Time,
	wh *workinghours.WorkingHours,
	eff *serviceavail.EffectiveSettings,
	p dayParams,
) ([]*TimeSlot, error) {
	if wh == nil || !wh.Active {
		return nil, nil
	}

	if eff != nil {
		if !eff.AllowsWeekday(day.Weekday()) {
			return nil, nil
		}
		if eff.TemporarilyUnavailableOn(day) {
			return nil, nil
		}
	}

	windowStart, windowEnd, breakStart, breakEnd, hasBreak := dayWindow(wh, eff, day.Weekday())
	// A collapsed or inverted window is not an error, it just yields nothing.
	if windowStart >= windowEnd {
		return nil, nil
	}

	date := timeutil.FormatDate(day)
	blocks, err := g.blocks.ActiveOn(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	var intervals []blockedtime.Interval
	for _, b := range blocks {
		iv := b.Interval()
		if iv.AllDay {
			// Nothing to walk; the whole day is blocked.
			return nil, nil
		}
		intervals = append(intervals, iv)
	}

	step := p.duration + p.buffer + p.prep + p.cleanup
	if step <= 0 {
		return nil, nil
	}

	var price *float64
	if eff != nil {
		price = eff.Price
	}

	var slots []*TimeSlot
	for current := windowStart; current+step <= windowEnd; {
		candidateEnd := current + step

		// Break window wins over blocked-time checks; jump past it and retry.
		if hasBreak && timeutil.Overlaps(current, candidateEnd, breakStart, breakEnd) {
			current = breakEnd
			continue
		}

		if overlapsAny(current, candidateEnd, intervals) {
			current += step
			continue
		}

		// A candidate that touches any stored slot is skipped, not just
		// exact start matches: surviving slots may have been generated at a
		// different step and adding an overlapping sibling would let the
		// same window be sold twice.
		if overlapsOccupied(current, candidateEnd, p.existing[date]) {
			current += step
			continue
		}

		startStr := timeutil.FormatClock(current)
		slots = append(slots, &TimeSlot{
			ID:              uuid.New().String(),
			ProviderID:      providerID,
			ServiceID:       p.serviceID,
			Date:            date,
			StartTime:       startStr,
			EndTime:         timeutil.FormatClock(candidateEnd),
			DurationMinutes: p.duration,
			BufferMinutes:   p.buffer,
			Status:          StatusAvailable,
			MaxBookings:     p.maxBookings,
			CurrentBookings: 0,
			CustomPrice:     price,
		})
		current += step
	}

	return slots, nil
}

// dayWindow picks the operating window and break for the day: the service's
// custom per-day hours when present, otherwise the provider's template.
func dayWindow(wh *workinghours.WorkingHours, eff *serviceavail.EffectiveSettings, weekday time.Weekday) (start, end, breakStart, breakEnd int, hasBreak bool) {
	if eff != nil {
		if custom, ok := eff.HoursFor(weekday); ok {
			start, _ = timeutil.ParseClock(custom.StartTime)
			end, _ = timeutil.ParseClock(custom.EndTime)
			if custom.BreakStart != nil && custom.BreakEnd != nil {
				breakStart, _ = timeutil.ParseClock(*custom.BreakStart)
				breakEnd, _ = timeutil.ParseClock(*custom.BreakEnd)
				hasBreak = breakStart < breakEnd
			}
			return start, end, breakStart, breakEnd, hasBreak
		}
	}

	start, _ = timeutil.ParseClock(wh.StartTime)
	end, _ = timeutil.ParseClock(wh.EndTime)
	breakStart, breakEnd, hasBreak = wh.Break()
	return start, end, breakStart, breakEnd, hasBreak
}

func resolveStep(opts GenerateOptions, eff *serviceavail.EffectiveSettings) (duration, buffer, prep, cleanup int) {
	if eff != nil {
		duration = eff.DurationMinutes
		buffer = eff.BufferMinutes
		prep = eff.PreparationMinutes
		cleanup = eff.CleanupMinutes
	} else {
		duration = serviceavail.DefaultDurationMinutes
		buffer = serviceavail.DefaultBufferMinutes
	}

	// Explicit options override the resolved values; a present-but-zero
	// buffer means back-to-back slots.
	if opts.SlotDurationMinutes > 0 {
		duration = opts.SlotDurationMinutes
	}
	if opts.BufferMinutes != nil && *opts.BufferMinutes >= 0 {
		buffer = *opts.BufferMinutes
	}
	return duration, buffer, prep, cleanup
}

func overlapsAny(start, end int, intervals []blockedtime.Interval) bool {
	for _, iv := range intervals {
		if timeutil.Overlaps(start, end, iv.Start, iv.End) {
			return true
		}
	}
	return false
}

func overlapsOccupied(start, end int, windows []occupied) bool {
	for _, w := range windows {
		if timeutil.Overlaps(start, end, w.start, w.end) {
			return true
		}
	}
	return false
}

func (g *Generator) existingWindows(ctx context.Context, providerID, fromDate, toDate string) (map[string][]occupied, error) {
	current, err := g.repo.ListByDateRange(ctx, providerID, fromDate, toDate, nil)
	if err != nil {
		return nil, err
	}
	windows := make(map[string][]occupied, len(current))
	for _, s := range current {
		start, end := s.Window()
		windows[s.Date] = append(windows[s.Date], occupied{start: start, end: end})
	}
	return windows, nil
}

func weekdaySet(weekdays []time.Weekday) map[time.Weekday]bool {
	if len(weekdays) == 0 {
		return nil
	}
	set := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		set[wd] = true
	}
	return set
}
