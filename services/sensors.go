package services

import (
	"context"

	"aquasmart/entities"
)

// SensorOverview is the sensor inventory with its health counts.
type SensorOverview struct {
	Sensors    []entities.Sensor `json:"sensors"`
	Total      int               `json:"total"`
	ByStatus   map[string]int    `json:"by_status"`
	LowBattery int               `json:"low_battery"`
}

// Sensors filters the inventory by status ("" or "all" keeps everything).
// Counts always cover the whole inventory.
func (s *DashboardService) Sensors(ctx context.Context, userID int, statusFilter string) (*SensorOverview, error) {
	sensors, err := s.backend.GetSensors(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &SensorOverview{Sensors: []entities.Sensor{}, Total: len(sensors), ByStatus: map[string]int{}}
	for _, sn := range sensors {
		out.ByStatus[sn.Status]++
		if sn.LowBattery() {
			out.LowBattery++
		}
		if statusFilter == "" || statusFilter == "all" || sn.Status == statusFilter {
			out.Sensors = append(out.Sensors, sn)
		}
	}
	return out, nil
}
