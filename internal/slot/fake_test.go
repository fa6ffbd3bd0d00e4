package slot

import (
	"context"
	"sync"
	"time"

	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

type fakeHours struct {
	week []*workinghours.WorkingHours
}

func (f *fakeHours) Get(_ context.Context, _ string) ([]*workinghours.WorkingHours, error) {
	return f.week, nil
}

type fakeBlocks struct {
	byDate map[string][]*blockedtime.BlockedTime
}

func (f *fakeBlocks) ActiveOn(_ context.Context, _ string, date string) ([]*blockedtime.BlockedTime, error) {
	return f.byDate[date], nil
}

type fakeSettings struct {
	eff *serviceavail.EffectiveSettings
	err error
}

func (f *fakeSettings) GetEffective(_ context.Context, _ string, _ string) (*serviceavail.EffectiveSettings, error) {
	return f.eff, f.err
}

// fakeRepo is an in-memory Repository with the same conditional-update
// semantics as the Postgres implementation.
type fakeRepo struct {
	mu    sync.Mutex
	slots map[string]*TimeSlot
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{slots: make(map[string]*TimeSlot)}
}

func (r *fakeRepo) CreateBatch(_ context.Context, slots []*TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range slots {
		cp := *s
		r.slots[s.ID] = &cp
	}
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) ListByDate(ctx context.Context, providerID, date string, serviceID *string) ([]*TimeSlot, error) {
	return r.ListByDateRange(ctx, providerID, date, date, serviceID)
}

func (r *fakeRepo) ListByDateRange(_ context.Context, providerID, fromDate, toDate string, serviceID *string) ([]*TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*TimeSlot
	for _, s := range r.slots {
		if s.ProviderID != providerID || s.Date < fromDate || s.Date > toDate {
			continue
		}
		if serviceID != nil && (s.ServiceID == nil || *s.ServiceID != *serviceID) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, ids []string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if s, ok := r.slots[id]; ok {
			s.Status = status
		}
	}
	return nil
}

func (r *fakeRepo) DeleteFutureUnbooked(_ context.Context, providerID, fromDate string, weekday *time.Weekday, serviceID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.slots {
		if s.ProviderID != providerID || s.Date < fromDate || s.CurrentBookings > 0 {
			continue
		}
		if weekday != nil {
			day, err := timeutil.ParseDate(s.Date)
			if err != nil || day.Weekday() != *weekday {
				continue
			}
		}
		if serviceID != nil && (s.ServiceID == nil || *s.ServiceID != *serviceID) {
			continue
		}
		delete(r.slots, id)
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id, providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok || s.ProviderID != providerID {
		return ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeRepo) IncrementBooking(_ context.Context, id string) (*TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Status != StatusAvailable || s.CurrentBookings >= s.MaxBookings {
		return nil, ErrCapacityFull
	}
	s.CurrentBookings++
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) DecrementBooking(_ context.Context, id string) (*TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.CurrentBookings <= 0 {
		return nil, ErrNoBookings
	}
	s.CurrentBookings--
	cp := *s
	return &cp, nil
}
