package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampDecoding(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("UTC+3", 3*60*60)
	t.Cleanup(func() { time.Local = prev })

	cases := map[string]time.Time{
		`"2026-01-01T10:00:00.123456"`: time.Date(2026, 1, 1, 10, 0, 0, 123456000, time.Local),
		`"2026-01-01T10:00:00Z"`:       time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		`"2026-01-01T10:00:00+01:00"`:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		`"2026-01-01 10:00:00"`:        time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local),
		`"2026-01-01T10:00"`:           time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local),
		`null`:                         {},
		`""`:                           {},
	}
	for raw, want := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, want.Equal(ts.Time), "%s decoded to %v", raw, ts.Time)
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-01T10:00:00.123456"`), &ts))
	assert.True(t, time.Date(2026, 1, 1, 7, 0, 0, 123456000, time.UTC).Equal(ts.Time))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestampEncoding(t *testing.T) {
	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = json.Marshal(Timestamp{time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-01T10:00:00Z"`, string(b))
}

func TestPumpState(t *testing.T) {
	cases := map[string]PumpState{
		"":         PumpUnknown,
		"TAM AÇ":   PumpOpen,
		"  açık ":  PumpOpen,
		"YARIM AÇ": PumpHalf,
		"half":     PumpHalf,
		"KAPALI":   PumpClosed,
		"off":      PumpClosed,
		"on":       PumpOpen,
		"bakımda":  PumpUnknown,
	}
	for pump, want := range cases {
		assert.Equal(t, want, IrrigationDecision{Pump: pump}.PumpState(), pump)
	}
}

func TestAllFieldsDecisionShapes(t *testing.T) {
	var list AllFieldsDecision
	require.NoError(t, json.Unmarshal([]byte(`[{"field_id":1,"pompa":"KAPALI"}]`), &list))
	require.Len(t, list.Decisions, 1)
	assert.Equal(t, PumpClosed, list.Decisions[0].PumpState())

	var wrapped AllFieldsDecision
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":7,"fields":[{"field_id":1},{"field_id":2}]}`), &wrapped))
	assert.Equal(t, 7, wrapped.UserID)
	assert.Len(t, wrapped.Decisions, 2)
}

func TestTipList(t *testing.T) {
	assert.Nil(t, PlantType{}.TipList())
	assert.Equal(t, []string{"a", "b"}, PlantType{Tips: `["a","b"]`}.TipList())
	assert.Equal(t, []string{"Water early"}, PlantType{Tips: "Water early"}.TipList())
}

func TestThresholdsValid(t *testing.T) {
	assert.True(t, PlantType{CriticalMoisture: 30, MinMoisture: 50, MaxMoisture: 80}.Thresholds().Valid())
	assert.False(t, Thresholds{Critical: 60, Min: 50, Max: 80}.Valid())
}

func TestLatestLogAndDisplayName(t *testing.T) {
	assert.Nil(t, Field{}.LatestLog())
	f := Field{SensorLogs: []SensorLog{{ID: 1}, {ID: 2}}}
	assert.Equal(t, 2, f.LatestLog().ID)

	assert.Equal(t, "a@b.c", User{Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "Deniz", User{Email: "a@b.c", FullName: "Deniz"}.DisplayName())
}
