package services

import (
	"context"
	"time"

	"aquasmart/entities"
	"aquasmart/irrigation"
	"aquasmart/status"
)

// ScheduledWatering is the next plan slot across all fields.
type ScheduledWatering struct {
	FieldID   int    `json:"field_id"`
	FieldName string `json:"field_name"`
	irrigation.Upcoming
}

// Summary is the landing page: field health, attention list and the next
// scheduled watering.
type Summary struct {
	FieldCount       int                   `json:"field_count"`
	StatusCounts     map[status.Status]int `json:"status_counts"`
	Attention        []FieldView           `json:"attention"`
	EstimatedRevenue float64               `json:"estimated_revenue"`
	NextWatering     *ScheduledWatering    `json:"next_watering,omitempty"`
}

func (s *DashboardService) Summary(ctx context.Context, userID int, now time.Time) (*Summary, error) {
	views, err := s.FieldViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &Summary{
		FieldCount:   len(views),
		StatusCounts: map[status.Status]int{},
		Attention:    Attention(views),
		NextWatering: NextWatering(s.plans.All(), now),
	}
	for _, v := range views {
		out.StatusCounts[v.Status]++
		if v.Revenue != nil {
			out.EstimatedRevenue += *v.Revenue
		}
	}
	return out, nil
}

// NextWatering picks the soonest upcoming slot among plans.
func NextWatering(plans []entities.WeeklyPlan, now time.Time) *ScheduledWatering {
	var best *ScheduledWatering
	bestStart := 0
	for _, p := range plans {
		next, ok := irrigation.NextSlot(p, now)
		if !ok {
			continue
		}
		start, _ := irrigation.ParseClock(next.Slot.Start)
		if best == nil || next.DaysAway < best.DaysAway || next.DaysAway == best.DaysAway && start < bestStart {
			best = &ScheduledWatering{FieldID: p.FieldID, FieldName: p.FieldName, Upcoming: next}
			bestStart = start
		}
	}
	return best
}

// Plans exposes the loaded irrigation plans.
func (s *DashboardService) Plans() *irrigation.Catalog {
	return s.plans
}
