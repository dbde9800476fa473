// Package status classifies a field by its latest soil-moisture reading.
package status

import "aquasmart/entities"

// Status is the irrigation urgency of a field.
type Status string

const (
	Critical Status = "critical"
	Warning  Status = "warning"
	Optimal  Status = "optimal"
	Normal   Status = "normal"
)

// Boundaries applied when a field has no plant type.
const (
	FallbackCritical = 30.0
	FallbackWarning  = 50.0
)

// Severity orders statuses, higher is worse. Normal and Optimal share the
// bottom rank: both mean no action is needed.
func (s Status) Severity() int {
	switch s {
	case Critical:
		return 2
	case Warning:
		return 1
	}
	return 0
}

// Label is the display text of a status.
func (s Status) Label() string {
	switch s {
	case Critical:
		return "Critical"
	case Warning:
		return "Warning"
	case Optimal:
		return "Optimal"
	}
	return "Normal"
}

// NeedsAttention reports whether the field should be listed for manual watering.
func (s Status) NeedsAttention() bool {
	return s == Critical || s == Warning
}

// Classify derives the status from moisture m. thresholds is nil when the field
// has no plant type.
func Classify(m float64, thresholds *entities.Thresholds) Status {
	if thresholds == nil {
		switch {
		case m < FallbackCritical:
			return Critical
		case m < FallbackWarning:
			return Warning
		}
		return Normal
	}

	switch {
	case m < thresholds.Critical:
		return Critical
	case m < thresholds.Min:
		return Warning
	case m <= thresholds.Max:
		return Optimal
	}
	return Normal
}

// OfField classifies the field's most recent reading. A field without
// readings is Normal.
func OfField(f entities.Field) Status {
	latest := f.LatestLog()
	if latest == nil {
		return Normal
	}
	var thresholds *entities.Thresholds
	if f.PlantType != nil {
		t := f.PlantType.Thresholds()
		thresholds = &t
	}
	return Classify(latest.Moisture, thresholds)
}

// Level is the colour band of a raw moisture percentage.
type Level string

const (
	LevelGood Level = "good"
	LevelFair Level = "fair"
	LevelPoor Level = "poor"
)

// MoistureLevel bands m at 60 and 40 percent.
func MoistureLevel(m float64) Level {
	switch {
	case m >= 60:
		return LevelGood
	case m >= 40:
		return LevelFair
	}
	return LevelPoor
}
