package entities

import (
	"encoding/json"
	"strings"
)

// PlantType is a crop species with its moisture thresholds (percent) and
// cultivation notes.
type PlantType struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category,omitempty"`
	Icon             string  `json:"icon,omitempty"`
	CriticalMoisture float64 `json:"critical_moisture"`
	MinMoisture      float64 `json:"min_moisture"`
	MaxMoisture      float64 `json:"max_moisture"`
	MaxWaitHours     int     `json:"max_wait_hours"`
	PlantingTime     string  `json:"planting_time,omitempty"`
	HarvestTime      string  `json:"harvest_time,omitempty"`
	WaterNeed        string  `json:"water_need,omitempty"`
	WaterAmount      string  `json:"water_amount,omitempty"`
	SoilType         string  `json:"soil_type,omitempty"`
	IdealTemp        string  `json:"ideal_temp,omitempty"`
	Tips             string  `json:"tips,omitempty"` // JSON array encoded as a string
}

// Thresholds is the critical <= min <= max moisture triple used for status.
type Thresholds struct {
	Critical float64 `json:"critical"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Valid reports whether the ordering invariant holds.
func (t Thresholds) Valid() bool {
	return t.Critical <= t.Min && t.Min <= t.Max
}

func (p PlantType) Thresholds() Thresholds {
	return Thresholds{Critical: p.CriticalMoisture, Min: p.MinMoisture, Max: p.MaxMoisture}
}

// TipList decodes Tips. The backend stores a JSON array; anything else is
// treated as a single free-text tip.
func (p PlantType) TipList() []string {
	raw := strings.TrimSpace(p.Tips)
	if raw == "" {
		return nil
	}
	var tips []string
	if err := json.Unmarshal([]byte(raw), &tips); err != nil {
		return []string{raw}
	}
	return tips
}

// PlantTypeCreate is the body of POST /plant-types/.
type PlantTypeCreate struct {
	Name        string  `json:"name"`
	MinMoisture float64 `json:"min_moisture"`
	MaxMoisture float64 `json:"max_moisture"`
}
