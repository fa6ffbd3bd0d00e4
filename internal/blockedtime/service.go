package blockedtime

import (
	"context"

	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/keylock"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

// Propagator repairs slot state after a block mutation. oldInterval is nil on
// create, newInterval is nil on delete; update passes both so the old window
// is un-blocked before the new one is applied.
type Propagator interface {
	BlockedTimeChanged(ctx context.Context, providerID, date string, oldInterval, newInterval *Interval)
}

// CreateRequest carries a new block's fields.
type CreateRequest struct {
	Date             string
	StartTime        *string
	EndTime          *string
	AllDay           bool
	Type             BlockType
	Reason           string
	RecurringPattern *RecurringPattern
	RecurringEndDate *string
}

// UpdateRequest is a partial patch; nil fields keep their current value.
type UpdateRequest struct {
	Date             *string
	StartTime        *string
	EndTime          *string
	AllDay           *bool
	Type             *BlockType
	Reason           *string
	Active           *bool
	RecurringPattern *RecurringPattern
	RecurringEndDate *string
}

type Service interface {
	List(ctx context.Context, providerID string, filter Filter) ([]*BlockedTime, int, error)
	// ActiveOn resolves recurrence: it returns every active block that applies
	// to the date, whether recorded for it directly or recurring onto it.
	ActiveOn(ctx context.Context, providerID, date string) ([]*BlockedTime, error)
	Create(ctx context.Context, providerID string, req CreateRequest) (*BlockedTime, error)
	Update(ctx context.Context, id, providerID string, req UpdateRequest) (*BlockedTime, error)
	Delete(ctx context.Context, id, providerID string) error
}

type service struct {
	repo       Repository
	propagator Propagator

	// locks serializes check-then-write per provider: without it two
	// concurrent creates with overlapping windows both pass the conflict
	// check and both insert.
	locks *keylock.KeyedMutex
}

func NewService(repo Repository, propagator Propagator) Service {
	return &service{repo: repo, propagator: propagator, locks: keylock.New()}
}

func (s *service) List(ctx context.Context, providerID string, filter Filter) ([]*BlockedTime, int, error) {
	items, err := s.repo.List(ctx, providerID, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, providerID, filter)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (s *service) ActiveOn(ctx context.Context, providerID, date string) ([]*BlockedTime, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	// Recurring blocks anchor on an earlier date, so the candidate set is
	// every active block recorded up to and including the date.
	candidates, err := s.repo.List(ctx, providerID, Filter{ToDate: date, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	var active []*BlockedTime
	for _, b := range candidates {
		if b.IsActiveOn(day) {
			active = append(active, b)
		}
	}
	return active, nil
}

func (s *service) Create(ctx context.Context, providerID string, req CreateRequest) (*BlockedTime, error) {
	b := &BlockedTime{
		ProviderID:       providerID,
		Date:             req.Date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		AllDay:           req.AllDay,
		Type:             req.Type,
		Reason:           req.Reason,
		Active:           true,
		RecurringPattern: req.RecurringPattern,
		RecurringEndDate: req.RecurringEndDate,
	}
	if b.AllDay {
		b.StartTime, b.EndTime = nil, nil
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(providerID)
	defer unlock()

	if err := s.checkConflicts(ctx, b, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	iv := b.Interval()
	s.propagator.BlockedTimeChanged(ctx, providerID, b.Date, nil, &iv)

	return b, nil
}

func (s *service) Update(ctx context.Context, id, providerID string, req UpdateRequest) (*BlockedTime, error) {
	unlock := s.locks.Lock(providerID)
	defer unlock()

	b, err := s.repo.GetByID(ctx, id, providerID)
	if err != nil {
		return nil, err
	}

	oldDate := b.Date
	oldInterval := b.Interval()
	wasActive := b.Active

	applyPatch(b, req)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if b.Active {
		if err := s.checkConflicts(ctx, b, b.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	newInterval := b.Interval()

	// Un-block the old window first, then apply the new one. The propagator
	// serializes both steps per provider so concurrent updates cannot leave a
	// slot stuck in a stale blocked state.
	if oldDate != b.Date {
		if wasActive {
			s.propagator.BlockedTimeChanged(ctx, providerID, oldDate, &oldInterval, nil)
		}
		if b.Active {
			s.propagator.BlockedTimeChanged(ctx, providerID, b.Date, nil, &newInterval)
		}
		return b, nil
	}

	var oldPtr, newPtr *Interval
	if wasActive {
		oldPtr = &oldInterval
	}
	if b.Active {
		newPtr = &newInterval
	}
	s.propagator.BlockedTimeChanged(ctx, providerID, b.Date, oldPtr, newPtr)

	return b, nil
}

func (s *service) Delete(ctx context.Context, id, providerID string) error {
	unlock := s.locks.Lock(providerID)
	defer unlock()

	b, err := s.repo.GetByID(ctx, id, providerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, providerID); err != nil {
		return err
	}

	if b.Active {
		iv := b.Interval()
		s.propagator.BlockedTimeChanged(ctx, providerID, b.Date, &iv, nil)
	}
	return nil
}

// checkConflicts rejects the block when it collides with another active block
// on the same date. excludeID skips the block itself during updates.
func (s *service) checkConflicts(ctx context.Context, b *BlockedTime, excludeID string) error {
	existing, err := s.repo.ListOnDate(ctx, b.ProviderID, b.Date)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if b.ConflictsWith(other) {
			return ErrOverlap
		}
	}
	return nil
}

func applyPatch(b *BlockedTime, req UpdateRequest) {
	if req.Date != nil {
		b.Date = *req.Date
	}
	if req.AllDay != nil {
		b.AllDay = *req.AllDay
	}
	if req.StartTime != nil {
		b.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		b.EndTime = req.EndTime
	}
	if b.AllDay {
		b.StartTime, b.EndTime = nil, nil
	}
	if req.Type != nil {
		b.Type = *req.Type
	}
	if req.Reason != nil {
		b.Reason = *req.Reason
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
	if req.RecurringPattern != nil {
		b.RecurringPattern = req.RecurringPattern
	}
	if req.RecurringEndDate != nil {
		b.RecurringEndDate = req.RecurringEndDate
	}
}
