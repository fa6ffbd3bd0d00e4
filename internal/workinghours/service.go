package workinghours

import (
	"context"
	"time"
)

// Propagator is notified after a successful mutation so the bookable calendar
// can be repaired. Implemented by the propagation package.
type Propagator interface {
	WorkingHoursChanged(ctx context.Context, providerID string, weekdays []time.Weekday)
}

// UpdateRequest carries one weekday's new template.
type UpdateRequest struct {
	Weekday           time.Weekday
	Active            bool
	StartTime         string
	EndTime           string
	BreakStart        *string
	BreakEnd          *string
	Timezone          string
	MaxBookingsPerDay int
}

type Service interface {
	// Get returns one record per weekday, creating and persisting the system
	// default week on first access.
	Get(ctx context.Context, providerID string) ([]*WorkingHours, error)
	Upsert(ctx context.Context, providerID string, reqs []UpdateRequest) ([]*WorkingHours, error)
	UpsertOne(ctx context.Context, providerID string, req UpdateRequest) (*WorkingHours, error)
	Remove(ctx context.Context, providerID string, weekday time.Weekday) error
}

type service struct {
	repo       Repository
	propagator Propagator
}

func NewService(repo Repository, propagator Propagator) Service {
	return &service{repo: repo, propagator: propagator}
}

func (s *service) Get(ctx context.Context, providerID string) ([]*WorkingHours, error) {
	week, err := s.repo.GetWeek(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if len(week) > 0 {
		return week, nil
	}

	// First access: persist the default template so later reads and slot
	// generation see the same rows.
	week = DefaultWeek(providerID)
	if err := s.repo.UpsertWeek(ctx, week); err != nil {
		return nil, err
	}
	return week, nil
}

func (s *service) Upsert(ctx context.Context, providerID string, reqs []UpdateRequest) ([]*WorkingHours, error) {
	week := make([]*WorkingHours, 0, len(reqs))
	weekdays := make([]time.Weekday, 0, len(reqs))

	for _, req := range reqs {
		wh := fromRequest(providerID, req)
		if err := wh.Validate(); err != nil {
			return nil, err
		}
		week = append(week, wh)
		weekdays = append(weekdays, req.Weekday)
	}

	if err := s.repo.UpsertWeek(ctx, week); err != nil {
		return nil, err
	}

	// The bookable calendar for these weekdays is now stale.
	s.propagator.WorkingHoursChanged(ctx, providerID, weekdays)

	return week, nil
}

func (s *service) UpsertOne(ctx context.Context, providerID string, req UpdateRequest) (*WorkingHours, error) {
	wh := fromRequest(providerID, req)
	if err := wh.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertDay(ctx, wh); err != nil {
		return nil, err
	}

	s.propagator.WorkingHoursChanged(ctx, providerID, []time.Weekday{req.Weekday})

	return wh, nil
}

func (s *service) Remove(ctx context.Context, providerID string, weekday time.Weekday) error {
	if err := s.repo.DeleteDay(ctx, providerID, weekday); err != nil {
		return err
	}

	// With no template left the weekday has no bookable calendar; the
	// propagator drops its future unbooked slots.
	s.propagator.WorkingHoursChanged(ctx, providerID, []time.Weekday{weekday})

	return nil
}

func fromRequest(providerID string, req UpdateRequest) *WorkingHours {
	tz := req.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	maxPerDay := req.MaxBookingsPerDay
	if maxPerDay <= 0 {
		maxPerDay = DefaultMaxBookingsADay
	}
	return &WorkingHours{
		ProviderID:        providerID,
		Weekday:           req.Weekday,
		Active:            req.Active,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		BreakStart:        req.BreakStart,
		BreakEnd:          req.BreakEnd,
		Timezone:          tz,
		MaxBookingsPerDay: maxPerDay,
	}
}
