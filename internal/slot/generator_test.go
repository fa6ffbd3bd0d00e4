package slot

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookli/scheduling-backend/internal/blockedtime"
	"github.com/bookli/scheduling-backend/internal/serviceavail"
	"github.com/bookli/scheduling-backend/internal/workinghours"
)

const testProvider = "provider-1"

// 2024-01-01 is a Monday.
const monday = "2024-01-01"

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func fullWeek(start, end string) []*workinghours.WorkingHours {
	week := make([]*workinghours.WorkingHours, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		week = append(week, &workinghours.WorkingHours{
			ProviderID:        testProvider,
			Weekday:           d,
			Active:            true,
			StartTime:         start,
			EndTime:           end,
			Timezone:          "UTC",
			MaxBookingsPerDay: 8,
		})
	}
	return week
}

func newTestGenerator(week []*workinghours.WorkingHours, blocks map[string][]*blockedtime.BlockedTime, eff *serviceavail.EffectiveSettings) (*Generator, *fakeRepo) {
	repo := newFakeRepo()
	g := NewGenerator(
		&fakeHours{week: week},
		&fakeBlocks{byDate: blocks},
		&fakeSettings{eff: eff},
		repo,
	)
	return g, repo
}

func sortSlots(slots []*TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

func TestGenerateFullDay(t *testing.T) {
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), nil, nil)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
		BufferMinutes:       intPtr(0),
	})
	require.NoError(t, err)
	require.Len(t, slots, 16)

	sortSlots(slots)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[0].EndTime)
	assert.Equal(t, "16:30", slots[15].StartTime)
	assert.Equal(t, "17:00", slots[15].EndTime)

	for _, s := range slots {
		assert.Equal(t, StatusAvailable, s.Status)
		assert.Equal(t, 30, s.DurationMinutes)
		assert.Equal(t, monday, s.Date)
	}
}

func TestGenerateRespectsBreak(t *testing.T) {
	week := fullWeek("09:00", "17:00")
	for _, wh := range week {
		wh.BreakStart = strPtr("12:00")
		wh.BreakEnd = strPtr("13:00")
	}
	g, _ := newTestGenerator(week, nil, nil)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
		BufferMinutes:       intPtr(0),
	})
	require.NoError(t, err)
	require.Len(t, slots, 14)

	sortSlots(slots)
	for _, s := range slots {
		start, end := s.Window()
		assert.False(t, start < 780 && end > 720, "slot %s-%s overlaps the break", s.StartTime, s.EndTime)
	}

	// Generation resumes exactly at break end.
	var afterBreak *TimeSlot
	for _, s := range slots {
		if s.StartTime >= "12:00" {
			afterBreak = s
			break
		}
	}
	require.NotNil(t, afterBreak)
	assert.Equal(t, "13:00", afterBreak.StartTime)
}

func TestGenerateSkipsBlockedWindows(t *testing.T) {
	blocks := map[string][]*blockedtime.BlockedTime{
		monday: {
			{
				ProviderID: testProvider,
				Date:       monday,
				StartTime:  strPtr("10:00"),
				EndTime:    strPtr("11:00"),
				Type:       blockedtime.TypePersonal,
				Active:     true,
			},
		},
	}
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), blocks, nil)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
		BufferMinutes:       intPtr(0),
	})
	require.NoError(t, err)
	require.Len(t, slots, 14)

	for _, s := range slots {
		start, end := s.Window()
		assert.False(t, start < 660 && end > 600, "slot %s-%s overlaps the block", s.StartTime, s.EndTime)
	}
}

func TestGenerateAllDayBlockYieldsNothing(t *testing.T) {
	blocks := map[string][]*blockedtime.BlockedTime{
		monday: {
			{
				ProviderID: testProvider,
				Date:       monday,
				AllDay:     true,
				Type:       blockedtime.TypeVacation,
				Active:     true,
			},
		},
	}
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), blocks, nil)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateInactiveWeekdaySkipped(t *testing.T) {
	week := fullWeek("09:00", "17:00")
	for _, wh := range week {
		if wh.Weekday == time.Saturday || wh.Weekday == time.Sunday {
			wh.Active = false
		}
	}
	g, _ := newTestGenerator(week, nil, nil)

	// Mon 2024-01-01 through Sun 2024-01-07.
	slots, err := g.Generate(context.Background(), testProvider, monday, "2024-01-07", GenerateOptions{
		SlotDurationMinutes: 60,
		BufferMinutes:       intPtr(0),
	})
	require.NoError(t, err)

	for _, s := range slots {
		assert.NotEqual(t, "2024-01-06", s.Date, "saturday must stay empty")
		assert.NotEqual(t, "2024-01-07", s.Date, "sunday must stay empty")
	}
	// 5 active days with 8 one-hour slots each.
	assert.Len(t, slots, 40)
}

func TestGenerateServiceWeekdayRestriction(t *testing.T) {
	serviceID := "service-1"
	eff := &serviceavail.EffectiveSettings{
		ProviderID:        testProvider,
		ServiceID:         serviceID,
		DurationMinutes:   60,
		BufferMinutes:     0,
		AvailableDays:     []time.Weekday{time.Monday, time.Wednesday},
		MaxBookingsPerDay: 1,
	}
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), nil, eff)

	slots, err := g.Generate(context.Background(), testProvider, monday, "2024-01-07", GenerateOptions{
		ServiceID: &serviceID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		require.NotNil(t, s.ServiceID)
		assert.Equal(t, serviceID, *s.ServiceID)
		assert.Contains(t, []string{"2024-01-01", "2024-01-03"}, s.Date)
	}
}

func TestGenerateBufferPadsStep(t *testing.T) {
	serviceID := "service-1"
	price := 49.0
	eff := &serviceavail.EffectiveSettings{
		ProviderID:        testProvider,
		ServiceID:         serviceID,
		DurationMinutes:   60,
		BufferMinutes:     15,
		MaxBookingsPerDay: 1,
		Price:             &price,
	}
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), nil, eff)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		ServiceID: &serviceID,
	})
	require.NoError(t, err)
	// 480 minutes of working time, 75 minutes per step.
	require.Len(t, slots, 6)

	sortSlots(slots)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "10:15", slots[0].EndTime)
	// The sellable duration excludes the buffer.
	assert.Equal(t, 60, slots[0].DurationMinutes)
	assert.Equal(t, 15, slots[0].BufferMinutes)
	require.NotNil(t, slots[0].CustomPrice)
	assert.Equal(t, price, *slots[0].CustomPrice)
}

func TestGenerateIdempotentWithSkipExisting(t *testing.T) {
	g, repo := newTestGenerator(fullWeek("09:00", "17:00"), nil, nil)
	ctx := context.Background()

	first, err := g.Generate(ctx, testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
		BufferMinutes:       intPtr(0),
		SkipExistingSlots:   true,
	})
	require.NoError(t, err)
	require.Len(t, first, 16)

	second, err := g.Generate(ctx, testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
		BufferMinutes:       intPtr(0),
		SkipExistingSlots:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, second)

	stored, err := repo.ListByDate(ctx, testProvider, monday, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 16)
}

func TestGenerateNilBufferFallsBackToDefault(t *testing.T) {
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), nil, nil)

	// Buffer left unset: the platform default pads the step to 45 minutes.
	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, slots, 10)

	sortSlots(slots)
	assert.Equal(t, "09:45", slots[1].StartTime)
	assert.Equal(t, serviceavail.DefaultBufferMinutes, slots[0].BufferMinutes)
}

func TestGenerateSkipExistingAtDifferentStep(t *testing.T) {
	g, repo := newTestGenerator(fullWeek("09:00", "17:00"), nil, nil)
	ctx := context.Background()

	// Seed the day with back-to-back 30-minute slots.
	first, err := g.Generate(ctx, testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
		BufferMinutes:       intPtr(0),
		SkipExistingSlots:   true,
	})
	require.NoError(t, err)
	require.Len(t, first, 16)

	// Regenerating with default parameters walks a 75-minute step whose
	// candidates start at offsets no stored slot uses. None of them may be
	// emitted on top of the existing calendar.
	_, err = g.Generate(ctx, testProvider, monday, monday, GenerateOptions{
		SkipExistingSlots: true,
	})
	require.NoError(t, err)

	stored, err := repo.ListByDate(ctx, testProvider, monday, nil)
	require.NoError(t, err)
	sortSlots(stored)
	for i := 1; i < len(stored); i++ {
		_, prevEnd := stored[i-1].Window()
		start, _ := stored[i].Window()
		assert.GreaterOrEqual(t, start, prevEnd,
			"stored slots %s and %s overlap", stored[i-1].StartTime, stored[i].StartTime)
	}
	assert.Len(t, stored, 16)
}

func TestGenerateWeekdayFilter(t *testing.T) {
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), nil, nil)

	// Mon 2024-01-01 through Sun 2024-01-07, Mondays only.
	slots, err := g.Generate(context.Background(), testProvider, monday, "2024-01-07", GenerateOptions{
		SlotDurationMinutes: 60,
		BufferMinutes:       intPtr(0),
		Weekdays:            []time.Weekday{time.Monday},
	})
	require.NoError(t, err)
	require.Len(t, slots, 8)
	for _, s := range slots {
		assert.Equal(t, monday, s.Date)
	}
}

func TestGenerateSlotsDoNotOverlap(t *testing.T) {
	week := fullWeek("09:00", "17:00")
	for _, wh := range week {
		wh.BreakStart = strPtr("12:00")
		wh.BreakEnd = strPtr("12:45")
	}
	g, _ := newTestGenerator(week, nil, nil)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 50,
		BufferMinutes:       intPtr(10),
	})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	sortSlots(slots)
	for i := 1; i < len(slots); i++ {
		_, prevEnd := slots[i-1].Window()
		start, _ := slots[i].Window()
		assert.GreaterOrEqual(t, start, prevEnd)
	}
}

func TestGenerateCollapsedWindow(t *testing.T) {
	g, _ := newTestGenerator(fullWeek("09:00", "09:00"), nil, nil)

	slots, err := g.Generate(context.Background(), testProvider, monday, monday, GenerateOptions{
		SlotDurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateRejectsBadRanges(t *testing.T) {
	g, _ := newTestGenerator(fullWeek("09:00", "17:00"), nil, nil)
	ctx := context.Background()

	_, err := g.Generate(ctx, testProvider, "2024-01-05", "2024-01-01", GenerateOptions{})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = g.Generate(ctx, testProvider, "not-a-date", monday, GenerateOptions{})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = g.Generate(ctx, testProvider, "2024-01-01", "2026-01-01", GenerateOptions{})
	assert.ErrorIs(t, err, ErrRangeTooLarge)
}
