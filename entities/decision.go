package entities

import (
	"encoding/json"
	"strings"
)

// PumpState is the normalised pump recommendation.
type PumpState string

const (
	PumpOpen    PumpState = "open"
	PumpHalf    PumpState = "half"
	PumpClosed  PumpState = "closed"
	PumpUnknown PumpState = "unknown"
)

// IrrigationDecision is the per-field recommendation of /simulation/check-irrigation.
// Older backends only fill Decision/Reason, newer ones the durum/aksiyon block.
type IrrigationDecision struct {
	FieldID      int      `json:"field_id,omitempty"`
	Field        string   `json:"field,omitempty"`
	Plant        string   `json:"plant,omitempty"`
	LastMoisture *float64 `json:"last_moisture,omitempty"`
	Decision     string   `json:"decision,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	Summary      string   `json:"durum,omitempty"`
	Action       string   `json:"aksiyon,omitempty"`
	Urgency      string   `json:"aciliyet,omitempty"`
	Detail       string   `json:"detay,omitempty"`
	Pump         string   `json:"pompa,omitempty"`
}

// PumpState maps the free-text pump field onto open/half/closed.
func (d IrrigationDecision) PumpState() PumpState {
	p := strings.ToUpper(strings.TrimSpace(d.Pump))
	switch {
	case p == "":
		return PumpUnknown
	case strings.Contains(p, "YARIM"), strings.Contains(p, "HALF"):
		return PumpHalf
	case strings.Contains(p, "KAPA"), strings.Contains(p, "CLOSE"), p == "OFF":
		return PumpClosed
	case strings.Contains(p, "TAM"), strings.Contains(p, "AÇ"), strings.Contains(p, "ACIK"),
		strings.Contains(p, "OPEN"), strings.Contains(p, "FULL"), p == "ON":
		return PumpOpen
	}
	return PumpUnknown
}

// AllFieldsDecision is the body of /simulation/check-all-fields/{userId}.
type AllFieldsDecision struct {
	UserID    int                  `json:"user_id,omitempty"`
	Decisions []IrrigationDecision `json:"fields"`
}

// UnmarshalJSON accepts either a bare array of decisions or an object
// wrapping them under "fields".
func (a *AllFieldsDecision) UnmarshalJSON(data []byte) error {
	var list []IrrigationDecision
	if err := json.Unmarshal(data, &list); err == nil {
		a.Decisions = list
		return nil
	}
	type wrapped AllFieldsDecision
	var w wrapped
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = AllFieldsDecision(w)
	return nil
}
