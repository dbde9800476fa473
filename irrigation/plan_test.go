package irrigation

import (
	"testing"
	"time"

	"aquasmart/entities"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tomatoPlan() entities.WeeklyPlan {
	return entities.WeeklyPlan{
		FieldID:   1,
		FieldName: "Tarla 1",
		Days: []entities.DayPlan{
			{Day: "Pazartesi", Slots: []entities.Slot{{Start: "06:00", End: "06:45", Amount: 120}}},
			{Day: "Salı", Slots: []entities.Slot{{Start: "08:00", End: "08:30", Amount: 80}}},
			{Day: "Çarşamba"},
			{Day: "Perşembe", Slots: []entities.Slot{
				{Start: "18:00", End: "18:20", Amount: 50},
				{Start: "06:00", End: "07:00", Amount: 150},
			}},
			{Day: "Cuma", Slots: []entities.Slot{{Start: "07:00", End: "07:30", Amount: 90}}},
			{Day: "Cumartesi"},
			{Day: "Pazar", Slots: []entities.Slot{{Start: "06:30", End: "07:15", Amount: 110}}},
		},
	}
}

// 2026-10-15 is a Thursday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, time.Local)
}

func TestDayIndex_MondayFirst(t *testing.T) {
	assert.Equal(t, 0, DayIndex(time.Monday))
	assert.Equal(t, 5, DayIndex(time.Saturday))
	assert.Equal(t, 6, DayIndex(time.Sunday))
}

func TestTotals(t *testing.T) {
	plan := tomatoPlan()
	assert.Equal(t, 600.0, WeeklyTotal(plan))
	assert.Equal(t, 6, SlotCount(plan))
	assert.Equal(t, 45+30+60+20+30+45, TotalMinutes(plan))

	empty := entities.WeeklyPlan{FieldID: 1, Days: []entities.DayPlan{{Day: "Pazartesi"}, {Day: "Pazar"}}}
	assert.Equal(t, 0.0, WeeklyTotal(empty))
	assert.Equal(t, 0, SlotCount(empty))
}

func TestNextSlot_LaterToday(t *testing.T) {
	got, ok := NextSlot(tomatoPlan(), at(15, 9, 0))
	require.True(t, ok)

	want := Upcoming{
		Slot:     entities.Slot{Start: "18:00", End: "18:20", Amount: 50},
		Day:      "Perşembe",
		DayIndex: 3,
		IsToday:  true,
		DaysAway: 0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NextSlot mismatch (-want +got):\n%s", diff)
	}
}

func TestNextSlot_EarliestSlotToday(t *testing.T) {
	got, ok := NextSlot(tomatoPlan(), at(15, 5, 59))
	require.True(t, ok)
	assert.Equal(t, "06:00", got.Slot.Start)
	assert.True(t, got.IsToday)
}

func TestNextSlot_StartMustBeStrictlyAfterNow(t *testing.T) {
	got, ok := NextSlot(tomatoPlan(), at(15, 18, 0))
	require.True(t, ok)
	assert.False(t, got.IsToday)
	assert.Equal(t, "Cuma", got.Day)
	assert.Equal(t, 1, got.DaysAway)
}

func TestNextSlot_AfterAllOfTodaysSlots(t *testing.T) {
	// Saturday evening: Saturday is empty anyway, Sunday has a slot.
	got, ok := NextSlot(tomatoPlan(), at(17, 23, 0))
	require.True(t, ok)
	assert.False(t, got.IsToday)
	assert.Equal(t, "Pazar", got.Day)
	assert.Equal(t, 1, got.DaysAway)

	// Sunday after its only slot wraps to Monday.
	got, ok = NextSlot(tomatoPlan(), at(18, 8, 0))
	require.True(t, ok)
	assert.False(t, got.IsToday)
	assert.Equal(t, "Pazartesi", got.Day)
	assert.Equal(t, 1, got.DaysAway)
}

func TestNextSlot_OnlySlotIsEarlierToday(t *testing.T) {
	plan := entities.WeeklyPlan{FieldID: 9, Days: []entities.DayPlan{
		{Day: "Perşembe", Slots: []entities.Slot{{Start: "06:00", End: "06:30", Amount: 10}}},
	}}
	_, ok := NextSlot(plan, at(15, 7, 0))
	assert.False(t, ok, "today's past slot is outside the seven-day window")
}

func TestNextSlot_EmptyPlan(t *testing.T) {
	_, ok := NextSlot(entities.WeeklyPlan{FieldID: 1}, at(15, 7, 0))
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	days := Summarize(tomatoPlan(), at(15, 7, 0))
	require.Len(t, days, 7)
	assert.Equal(t, "Pzt", days[0].Short)
	assert.True(t, days[3].IsToday)
	assert.Equal(t, 200.0, days[3].Amount)
	assert.Equal(t, 80, days[3].Minutes)
	assert.Equal(t, "06:00", days[3].Slots[0].Start, "slots sorted by start")
	assert.NotNil(t, days[2].Slots)
	assert.Empty(t, days[2].Slots)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(tomatoPlan()))

	bad := func(mut func(*entities.WeeklyPlan)) error {
		p := tomatoPlan()
		p.Days = append([]entities.DayPlan(nil), p.Days...)
		mut(&p)
		return Validate(p)
	}
	assert.ErrorIs(t, bad(func(p *entities.WeeklyPlan) {
		p.Days = append(p.Days, entities.DayPlan{Day: "Funday"})
	}), ErrUnknownDay)
	assert.ErrorIs(t, bad(func(p *entities.WeeklyPlan) {
		p.Days = append(p.Days, entities.DayPlan{Day: "Monday", Slots: []entities.Slot{{Start: "25:00", End: "26:00"}}})
	}), ErrInvalidTime)
	assert.Error(t, bad(func(p *entities.WeeklyPlan) {
		p.Days = append(p.Days, entities.DayPlan{Day: "Monday", Slots: []entities.Slot{{Start: "08:00", End: "07:00"}}})
	}))
	assert.Error(t, bad(func(p *entities.WeeklyPlan) { p.FieldID = 0 }))
}
