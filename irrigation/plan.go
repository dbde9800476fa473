// Package irrigation derives totals and the next watering slot from weekly
// plans, and loads those plans from fixture files.
package irrigation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"aquasmart/entities"
)

// DayNames is the fixed Monday-first order used by every plan.
var DayNames = [7]string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar"}

// DayShort are the tab labels of DayNames.
var DayShort = [7]string{"Pzt", "Sal", "Çar", "Per", "Cum", "Cmt", "Paz"}

var englishDays = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var (
	ErrInvalidTime = errors.New("time must be HH:MM")
	ErrUnknownDay  = errors.New("unknown day name")
)

// DayIndex maps a weekday to its Monday-first position (Monday=0, Sunday=6).
func DayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

// dayIndexByName accepts Turkish or English day names, case-insensitively.
func dayIndexByName(name string) (int, bool) {
	n := strings.TrimSpace(name)
	for i := range DayNames {
		if strings.EqualFold(n, DayNames[i]) || strings.EqualFold(n, englishDays[i]) {
			return i, true
		}
	}
	return 0, false
}

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// WeeklyTotal is the sum of every slot amount in the plan.
func WeeklyTotal(plan entities.WeeklyPlan) float64 {
	var total float64
	for _, day := range plan.Days {
		for _, slot := range day.Slots {
			total += slot.Amount
		}
	}
	return total
}

// SlotCount is the number of slots across all days.
func SlotCount(plan entities.WeeklyPlan) int {
	count := 0
	for _, day := range plan.Days {
		count += len(day.Slots)
	}
	return count
}

// SlotMinutes is the duration of a slot. Unparseable slots count as zero.
func SlotMinutes(slot entities.Slot) int {
	start, err := ParseClock(slot.Start)
	if err != nil {
		return 0
	}
	end, err := ParseClock(slot.End)
	if err != nil || end < start {
		return 0
	}
	return end - start
}

// TotalMinutes is the scheduled watering time of the whole week.
func TotalMinutes(plan entities.WeeklyPlan) int {
	total := 0
	for _, day := range plan.Days {
		for _, slot := range day.Slots {
			total += SlotMinutes(slot)
		}
	}
	return total
}

// Week arranges the plan into Monday-first days with slots sorted by start
// time. Days missing from the plan are empty; unknown day names are skipped.
func Week(plan entities.WeeklyPlan) [7]entities.DayPlan {
	var week [7]entities.DayPlan
	for i := range week {
		week[i].Day = DayNames[i]
	}
	for _, day := range plan.Days {
		idx, ok := dayIndexByName(day.Day)
		if !ok {
			continue
		}
		week[idx].Slots = append(week[idx].Slots, day.Slots...)
	}
	for i := range week {
		slots := week[i].Slots
		sort.SliceStable(slots, func(a, b int) bool {
			sa, _ := ParseClock(slots[a].Start)
			sb, _ := ParseClock(slots[b].Start)
			return sa < sb
		})
	}
	return week
}

// Upcoming is a slot located by NextSlot.
type Upcoming struct {
	Slot     entities.Slot `json:"slot"`
	Day      string        `json:"day"`
	DayIndex int           `json:"day_index"`
	IsToday  bool          `json:"is_today"`
	DaysAway int           `json:"days_away"`
}

// NextSlot finds the first slot after now, scanning today and the six
// following days in day-then-start order. Today's slots must start strictly
// after the current minute. ok is false when the plan has nothing in the window.
func NextSlot(plan entities.WeeklyPlan, now time.Time) (Upcoming, bool) {
	week := Week(plan)
	today := DayIndex(now.Weekday())
	nowMinute := now.Hour()*60 + now.Minute()

	for offset := 0; offset < 7; offset++ {
		idx := (today + offset) % 7
		for _, slot := range week[idx].Slots {
			start, err := ParseClock(slot.Start)
			if err != nil {
				continue
			}
			if offset == 0 && start <= nowMinute {
				continue
			}
			return Upcoming{
				Slot:     slot,
				Day:      DayNames[idx],
				DayIndex: idx,
				IsToday:  offset == 0,
				DaysAway: offset,
			}, true
		}
	}
	return Upcoming{}, false
}

// DaySummary is one day tab: its slots and their aggregate.
type DaySummary struct {
	Day     string          `json:"day"`
	Short   string          `json:"short"`
	IsToday bool            `json:"is_today"`
	Slots   []entities.Slot `json:"slots"`
	Amount  float64         `json:"amount"`
	Minutes int             `json:"minutes"`
}

// Summarize returns the seven day tabs, marking today's.
func Summarize(plan entities.WeeklyPlan, now time.Time) []DaySummary {
	week := Week(plan)
	today := DayIndex(now.Weekday())
	out := make([]DaySummary, 0, len(week))
	for i, day := range week {
		s := DaySummary{Day: day.Day, Short: DayShort[i], IsToday: i == today, Slots: day.Slots}
		for _, slot := range day.Slots {
			s.Amount += slot.Amount
			s.Minutes += SlotMinutes(slot)
		}
		if s.Slots == nil {
			s.Slots = []entities.Slot{}
		}
		out = append(out, s)
	}
	return out
}

// Validate checks every day name and slot of a plan.
func Validate(plan entities.WeeklyPlan) error {
	if plan.FieldID <= 0 {
		return fmt.Errorf("plan %q: field_id must be positive", plan.FieldName)
	}
	for _, day := range plan.Days {
		if _, ok := dayIndexByName(day.Day); !ok {
			return fmt.Errorf("field %d: %q: %w", plan.FieldID, day.Day, ErrUnknownDay)
		}
		for i, slot := range day.Slots {
			start, err := ParseClock(slot.Start)
			if err != nil {
				return fmt.Errorf("field %d %s slot %d start: %w", plan.FieldID, day.Day, i, err)
			}
			end, err := ParseClock(slot.End)
			if err != nil {
				return fmt.Errorf("field %d %s slot %d end: %w", plan.FieldID, day.Day, i, err)
			}
			if end <= start {
				return fmt.Errorf("field %d %s slot %d: end %s is not after start %s", plan.FieldID, day.Day, i, slot.End, slot.Start)
			}
			if slot.Amount < 0 {
				return fmt.Errorf("field %d %s slot %d: negative amount", plan.FieldID, day.Day, i)
			}
		}
	}
	return nil
}
