package slot

import (
	"context"

	"github.com/bookli/scheduling-backend/internal/pkg/cache"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

// HoursSummary is the day's operating window as shown to clients.
type HoursSummary struct {
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
}

// DayAvailability is the client-facing availability snapshot for one date.
// IsAvailable requires both an active working day and at least one slot that
// can still be booked.
type DayAvailability struct {
	Date           string        `json:"date"`
	IsAvailable    bool          `json:"is_available"`
	WorkingHours   *HoursSummary `json:"working_hours,omitempty"`
	AvailableSlots []*TimeSlot   `json:"available_slots"`
	TotalSlots     int           `json:"total_slots"`
	BookedSlots    int           `json:"booked_slots"`
}

// AvailabilityService serves the public read path, backed by a short-TTL
// cache so browse traffic stays off the database.
type AvailabilityService interface {
	ForDate(ctx context.Context, providerID, date string, serviceID *string) (*DayAvailability, error)
	ForRange(ctx context.Context, providerID, fromDate, toDate string, serviceID *string) ([]*DayAvailability, error)
}

type availabilityService struct {
	hours WorkingHoursSource
	repo  Repository
	cache *cache.Cache
}

func NewAvailabilityService(hours WorkingHoursSource, repo Repository, c *cache.Cache) AvailabilityService {
	return &availabilityService{hours: hours, repo: repo, cache: c}
}

func (a *availabilityService) ForDate(ctx context.Context, providerID, date string, serviceID *string) (*DayAvailability, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	var svcKey string
	if serviceID != nil {
		svcKey = *serviceID
	}
	key := cache.AvailabilityKey(providerID, date, svcKey)

	var cached DayAvailability
	if a.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	week, err := a.hours.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	var wh *workinghours.WorkingHours
	for _, w := range week {
		if w.Weekday == day.Weekday() {
			wh = w
			break
		}
	}

	slots, err := a.repo.ListByDate(ctx, providerID, date, serviceID)
	if err != nil {
		return nil, err
	}

	result := buildDay(date, wh, slots)
	a.cache.Set(ctx, key, result)
	return result, nil
}

func (a *availabilityService) ForRange(ctx context.Context, providerID, fromDate, toDate string, serviceID *string) ([]*DayAvailability, error) {
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

	week, err := a.hours.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	byWeekday := make(map[int]*workinghours.WorkingHours, len(week))
	for _, w := range week {
		byWeekday[int(w.Weekday)] = w
	}

	slots, err := a.repo.ListByDateRange(ctx, providerID, fromDate, toDate, serviceID)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]*TimeSlot)
	for _, s := range slots {
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	var days []*DayAvailability
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := timeutil.FormatDate(d)
		days = append(days, buildDay(date, byWeekday[int(d.Weekday())], byDate[date]))
	}
	return days, nil
}

func buildDay(date string, wh *workinghours.WorkingHours, slots []*TimeSlot) *DayAvailability {
	day := &DayAvailability{
		Date:           date,
		AvailableSlots: []*TimeSlot{},
		TotalSlots:     len(slots),
	}

	active := wh != nil && wh.Active
	if active {
		day.WorkingHours = &HoursSummary{
			StartTime:  wh.StartTime,
			EndTime:    wh.EndTime,
			BreakStart: wh.BreakStart,
			BreakEnd:   wh.BreakEnd,
		}
	}

	for _, s := range slots {
		if s.Status == StatusBooked {
			day.BookedSlots++
		}
		if s.Bookable() {
			day.AvailableSlots = append(day.AvailableSlots, s)
		}
	}

	day.IsAvailable = active && len(day.AvailableSlots) > 0
	return day
}
