package entities

// Field is a managed plot as listed by GET /users/{id}/fields/.
// PlantType is nil when no crop is assigned.
type Field struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Location       string      `json:"location"`
	District       string      `json:"ilce,omitempty"`
	Latitude       *float64    `json:"latitude,omitempty"`
	Longitude      *float64    `json:"longitude,omitempty"`
	OwnerID        int         `json:"owner_id"`
	PlantTypeID    *int        `json:"plant_type_id,omitempty"`
	PlantType      *PlantType  `json:"plant_type,omitempty"`
	PumpFlowRate   float64     `json:"pump_flow_rate"`
	WaterUnitPrice float64     `json:"water_unit_price"`
	SensorLogs     []SensorLog `json:"sensor_logs"`
}

// LatestLog returns the most recent sensor entry. The backend appends to
// sensor_logs, so this is the last element.
func (f Field) LatestLog() *SensorLog {
	if len(f.SensorLogs) == 0 {
		return nil
	}
	last := f.SensorLogs[len(f.SensorLogs)-1]
	return &last
}

// FieldCreate is the body of POST /users/{id}/fields/.
type FieldCreate struct {
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	District       string  `json:"ilce,omitempty"`
	PlantTypeID    int     `json:"plant_type_id"`
	PumpFlowRate   float64 `json:"pump_flow_rate,omitempty"`
	WaterUnitPrice float64 `json:"water_unit_price,omitempty"`
}

// SensorLog is one moisture/temperature reading of a field.
type SensorLog struct {
	ID          int       `json:"id"`
	FieldID     int       `json:"field_id,omitempty"`
	Moisture    float64   `json:"moisture"`
	Temperature float64   `json:"temperature"`
	IsRaining   bool      `json:"is_raining"`
	Timestamp   Timestamp `json:"timestamp"`
}

// SensorLogCreate is the body of POST /simulation/sensor-log/.
type SensorLogCreate struct {
	FieldID     int     `json:"field_id"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
	IsRaining   bool    `json:"is_raining"`
}
