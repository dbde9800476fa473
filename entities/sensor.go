package entities

// Sensor is one physical device in the inventory returned by /sensors/user/{id},
// carrying the last value of its field.
type Sensor struct {
	ID          int      `json:"id"`
	SensorCode  string   `json:"sensor_code"`
	Name        string   `json:"name"`
	Type        string   `json:"type"` // moisture | temperature
	TypeLabel   string   `json:"type_label"`
	Status      string   `json:"status"` // active | inactive | warning | maintenance
	Battery     int      `json:"battery"`
	FieldID     int      `json:"field_id"`
	FieldName   string   `json:"field_name"`
	Location    string   `json:"location"`
	Value       *float64 `json:"value"`
	Unit        string   `json:"unit"`
	LastData    *string  `json:"last_data"`
	InstalledAt *string  `json:"installed_at"`
}

// LowBattery flags devices that need a visit.
func (s Sensor) LowBattery() bool {
	return s.Battery < 30
}
