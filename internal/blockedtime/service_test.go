package blockedtime

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProvider = "provider-1"

func strPtr(s string) *string { return &s }

type memRepo struct {
	mu     sync.Mutex
	blocks map[string]*BlockedTime
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{blocks: make(map[string]*BlockedTime)}
}

func (r *memRepo) List(_ context.Context, providerID string, filter Filter) ([]*BlockedTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(providerID, filter), nil
}

func (r *memRepo) list(providerID string, filter Filter) []*BlockedTime {
	var out []*BlockedTime
	for _, b := range r.blocks {
		if b.ProviderID != providerID {
			continue
		}
		if filter.FromDate != "" && b.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && b.Date > filter.ToDate {
			continue
		}
		if filter.ActiveOnly && !b.Active {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out
}

func (r *memRepo) Count(_ context.Context, providerID string, filter Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	filter.Page, filter.PageSize = 0, 0
	return len(r.list(providerID, filter)), nil
}

func (r *memRepo) ListOnDate(_ context.Context, providerID, date string) ([]*BlockedTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*BlockedTime
	for _, b := range r.blocks {
		if b.ProviderID == providerID && b.Date == date && b.Active {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id, providerID string) (*BlockedTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok || b.ProviderID != providerID {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) Create(_ context.Context, b *BlockedTime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = fmt.Sprintf("block-%d", r.nextID)
	cp := *b
	r.blocks[b.ID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, b *BlockedTime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	r.blocks[b.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id, providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok || b.ProviderID != providerID {
		return ErrNotFound
	}
	delete(r.blocks, id)
	return nil
}

// recorder captures propagation calls for assertions.
type recorder struct {
	calls []propagationCall
}

type propagationCall struct {
	date     string
	old, new *Interval
}

func (r *recorder) BlockedTimeChanged(_ context.Context, _ string, date string, oldIv, newIv *Interval) {
	r.calls = append(r.calls, propagationCall{date: date, old: oldIv, new: newIv})
}

func newTestService() (Service, *memRepo, *recorder) {
	repo := newMemRepo()
	rec := &recorder{}
	return NewService(repo, rec), repo, rec
}

func TestCreateBlockedTime(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:00"),
		EndTime:   strPtr("11:00"),
		Type:      TypePersonal,
		Reason:    "dentist",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.True(t, b.Active)

	require.Len(t, rec.calls, 1)
	assert.Nil(t, rec.calls[0].old)
	require.NotNil(t, rec.calls[0].new)
	assert.Equal(t, 600, rec.calls[0].new.Start)
	assert.Equal(t, 660, rec.calls[0].new.End)
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:00"),
		EndTime:   strPtr("11:00"),
		Type:      TypePersonal,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:30"),
		EndTime:   strPtr("11:30"),
		Type:      TypeMaintenance,
	})
	assert.ErrorIs(t, err, ErrOverlap)

	// Touching edges are fine: intervals are half-open.
	_, err = svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("11:00"),
		EndTime:   strPtr("12:00"),
		Type:      TypeMaintenance,
	})
	assert.NoError(t, err)
}

func TestConcurrentOverlappingCreatesAdmitOne(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// Every goroutine races the same window; the provider lock forces the
	// check-then-insert sequences to take turns, so exactly one may land.
	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, testProvider, CreateRequest{
				Date:      "2024-06-10",
				StartTime: strPtr("10:00"),
				EndTime:   strPtr("11:00"),
				Type:      TypePersonal,
			})
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrOverlap)
		}
	}
	assert.Equal(t, 1, created)

	stored, err := repo.ListOnDate(ctx, testProvider, "2024-06-10")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateAllDayConflictsWithEverything(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("09:00"),
		EndTime:   strPtr("10:00"),
		Type:      TypePersonal,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, testProvider, CreateRequest{
		Date:   "2024-06-10",
		AllDay: true,
		Type:   TypeVacation,
	})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{
			name: "missing times",
			req:  CreateRequest{Date: "2024-06-10", Type: TypePersonal},
			want: ErrMissingTimes,
		},
		{
			name: "inverted range",
			req: CreateRequest{
				Date:      "2024-06-10",
				StartTime: strPtr("11:00"),
				EndTime:   strPtr("10:00"),
				Type:      TypePersonal,
			},
			want: ErrInvalidTimeRange,
		},
		{
			name: "bad type",
			req: CreateRequest{
				Date:      "2024-06-10",
				StartTime: strPtr("10:00"),
				EndTime:   strPtr("11:00"),
				Type:      "nap",
			},
			want: ErrInvalidBlockType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testProvider, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateAllDayDropsTimes(t *testing.T) {
	svc, _, _ := newTestService()

	b, err := svc.Create(context.Background(), testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:00"),
		EndTime:   strPtr("11:00"),
		AllDay:    true,
		Type:      TypeVacation,
	})
	require.NoError(t, err)
	assert.Nil(t, b.StartTime)
	assert.Nil(t, b.EndTime)
}

func TestUpdatePropagatesOldThenNew(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:00"),
		EndTime:   strPtr("11:00"),
		Type:      TypePersonal,
	})
	require.NoError(t, err)
	rec.calls = nil

	_, err = svc.Update(ctx, b.ID, testProvider, UpdateRequest{
		StartTime: strPtr("14:00"),
		EndTime:   strPtr("15:00"),
	})
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	call := rec.calls[0]
	require.NotNil(t, call.old)
	require.NotNil(t, call.new)
	assert.Equal(t, 600, call.old.Start)
	assert.Equal(t, 840, call.new.Start)
}

func TestUpdateDateChangeSplitsPropagation(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:00"),
		EndTime:   strPtr("11:00"),
		Type:      TypePersonal,
	})
	require.NoError(t, err)
	rec.calls = nil

	_, err = svc.Update(ctx, b.ID, testProvider, UpdateRequest{
		Date: strPtr("2024-06-12"),
	})
	require.NoError(t, err)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, "2024-06-10", rec.calls[0].date)
	assert.Nil(t, rec.calls[0].new)
	assert.Equal(t, "2024-06-12", rec.calls[1].date)
	assert.Nil(t, rec.calls[1].old)
}

func TestDeletePropagatesUnblock(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:      "2024-06-10",
		StartTime: strPtr("10:00"),
		EndTime:   strPtr("11:00"),
		Type:      TypePersonal,
	})
	require.NoError(t, err)
	rec.calls = nil

	require.NoError(t, svc.Delete(ctx, b.ID, testProvider))
	assert.Empty(t, repo.blocks)

	require.Len(t, rec.calls, 1)
	require.NotNil(t, rec.calls[0].old)
	assert.Nil(t, rec.calls[0].new)
}

func TestActiveOnResolvesRecurrence(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	weekly := RecurWeekly
	// Monday 2024-06-10, recurring weekly until the end of the month.
	_, err := svc.Create(ctx, testProvider, CreateRequest{
		Date:             "2024-06-10",
		AllDay:           true,
		Type:             TypeOther,
		RecurringPattern: &weekly,
		RecurringEndDate: strPtr("2024-06-30"),
	})
	require.NoError(t, err)

	active, err := svc.ActiveOn(ctx, testProvider, "2024-06-17")
	require.NoError(t, err)
	assert.Len(t, active, 1, "next monday falls in the recurrence")

	active, err = svc.ActiveOn(ctx, testProvider, "2024-06-18")
	require.NoError(t, err)
	assert.Empty(t, active, "tuesday does not match the weekly pattern")

	active, err = svc.ActiveOn(ctx, testProvider, "2024-07-01")
	require.NoError(t, err)
	assert.Empty(t, active, "past the recurrence end date")
}
