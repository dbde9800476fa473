package entities

// Slot is one watering window. Start and End are "HH:MM"; Amount is litres.
type Slot struct {
	Start  string  `json:"start" yaml:"start"`
	End    string  `json:"end" yaml:"end"`
	Amount float64 `json:"amount" yaml:"amount"`
	Note   string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// DayPlan holds the ordered slots of one weekday.
type DayPlan struct {
	Day   string `json:"day" yaml:"day"`
	Slots []Slot `json:"slots" yaml:"slots"`
}

// WeeklyPlan is a Monday-first, seven-day schedule for one field.
type WeeklyPlan struct {
	FieldID   int       `json:"field_id" yaml:"field_id"`
	FieldName string    `json:"field_name" yaml:"field_name"`
	Days      []DayPlan `json:"days" yaml:"days"`
}
