package slot

import (
	"context"

	"github.com/bookli/scheduling-backend/internal/pkg/cache"
)

// Service owns slot lifecycle outside of generation: lookups, deletion and
// the booking-side capacity handshake.
type Service interface {
	Get(ctx context.Context, id string) (*TimeSlot, error)
	ListByDate(ctx context.Context, providerID, date string, serviceID *string) ([]*TimeSlot, error)

	// Delete removes a slot, rejecting when it still carries bookings.
	Delete(ctx context.Context, id, providerID string) error

	// Reserve claims one unit of the slot's capacity. It is safe under
	// concurrent callers; losers get ErrCapacityFull.
	Reserve(ctx context.Context, id string) (*TimeSlot, error)

	// Release returns one unit of capacity, e.g. after a cancellation.
	Release(ctx context.Context, id string) (*TimeSlot, error)
}

type service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) Service {
	return &service{repo: repo, cache: c}
}

func (s *service) Get(ctx context.Context, id string) (*TimeSlot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByDate(ctx context.Context, providerID, date string, serviceID *string) ([]*TimeSlot, error) {
	return s.repo.ListByDate(ctx, providerID, date, serviceID)
}

func (s *service) Delete(ctx context.Context, id, providerID string) error {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.ProviderID != providerID {
		return ErrNotFound
	}
	if slot.CurrentBookings > 0 {
		return ErrSlotHasBookings
	}

	if err := s.repo.Delete(ctx, id, providerID); err != nil {
		return err
	}
	s.cache.InvalidateProvider(ctx, providerID)
	return nil
}

func (s *service) Reserve(ctx context.Context, id string) (*TimeSlot, error) {
	slot, err := s.repo.IncrementBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	// The last unit flips the slot out of the available pool.
	if slot.CurrentBookings >= slot.MaxBookings {
		if err := s.repo.UpdateStatus(ctx, []string{slot.ID}, StatusBooked); err != nil {
			return nil, err
		}
		slot.Status = StatusBooked
	}

	s.cache.InvalidateProvider(ctx, slot.ProviderID)
	return slot, nil
}

func (s *service) Release(ctx context.Context, id string) (*TimeSlot, error) {
	slot, err := s.repo.DecrementBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if slot.Status == StatusBooked && slot.CurrentBookings < slot.MaxBookings {
		if err := s.repo.UpdateStatus(ctx, []string{slot.ID}, StatusAvailable); err != nil {
			return nil, err
		}
		slot.Status = StatusAvailable
	}

	s.cache.InvalidateProvider(ctx, slot.ProviderID)
	return slot, nil
}
