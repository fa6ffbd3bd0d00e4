package slot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAndRelease(t *testing.T) {
	repo := newFakeRepo()
	seedSlots(t, repo, []*TimeSlot{
		{ID: "s1", ProviderID: testProvider, Date: monday, StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable, MaxBookings: 2},
	})
	svc := NewService(repo, nil)
	ctx := context.Background()

	s, err := svc.Reserve(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentBookings)
	assert.Equal(t, StatusAvailable, s.Status, "capacity remains")

	s, err = svc.Reserve(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentBookings)
	assert.Equal(t, StatusBooked, s.Status, "last unit flips the status")

	_, err = svc.Reserve(ctx, "s1")
	assert.ErrorIs(t, err, ErrCapacityFull)

	s, err = svc.Release(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentBookings)
	assert.Equal(t, StatusAvailable, s.Status, "releasing reopens the slot")
}

func TestReserveUnknownSlot(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.Reserve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseWithoutBookings(t *testing.T) {
	repo := newFakeRepo()
	seedSlots(t, repo, []*TimeSlot{
		{ID: "s1", ProviderID: testProvider, Date: monday, StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable, MaxBookings: 1},
	})
	svc := NewService(repo, nil)

	_, err := svc.Release(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNoBookings)
}

func TestConcurrentReservesNeverOverbook(t *testing.T) {
	repo := newFakeRepo()
	seedSlots(t, repo, []*TimeSlot{
		{ID: "s1", ProviderID: testProvider, Date: monday, StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable, MaxBookings: 3},
	})
	svc := NewService(repo, nil)

	const callers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Reserve(context.Background(), "s1"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, wins, "exactly capacity many reservations succeed")

	s, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.CurrentBookings)
}

func TestDeleteGuardsBookings(t *testing.T) {
	repo := newFakeRepo()
	seedSlots(t, repo, []*TimeSlot{
		{ID: "s1", ProviderID: testProvider, Date: monday, StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable, MaxBookings: 1, CurrentBookings: 1},
		{ID: "s2", ProviderID: testProvider, Date: monday, StartTime: "10:00", EndTime: "11:00", Status: StatusAvailable, MaxBookings: 1},
	})
	svc := NewService(repo, nil)
	ctx := context.Background()

	err := svc.Delete(ctx, "s1", testProvider)
	assert.ErrorIs(t, err, ErrSlotHasBookings)

	require.NoError(t, svc.Delete(ctx, "s2", testProvider))
	_, err = repo.GetByID(ctx, "s2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOtherProvidersSlot(t *testing.T) {
	repo := newFakeRepo()
	seedSlots(t, repo, []*TimeSlot{
		{ID: "s1", ProviderID: "someone-else", Date: monday, StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable, MaxBookings: 1},
	})
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), "s1", testProvider)
	assert.ErrorIs(t, err, ErrNotFound)
}
