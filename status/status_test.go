package status

import (
	"testing"

	"aquasmart/entities"

	"github.com/stretchr/testify/assert"
)

func TestClassify_WithThresholds(t *testing.T) {
	th := &entities.Thresholds{Critical: 20, Min: 35, Max: 60}

	tests := []struct {
		m    float64
		want Status
	}{
		{0, Critical},
		{19.9, Critical},
		{20, Warning},
		{34.9, Warning},
		{35, Optimal},
		{60, Optimal},
		{60.1, Normal},
		{100, Normal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.m, th), "moisture %v", tt.m)
	}
}

func TestClassify_Fallback(t *testing.T) {
	assert.Equal(t, Critical, Classify(29.9, nil))
	assert.Equal(t, Warning, Classify(30, nil))
	assert.Equal(t, Warning, Classify(49.9, nil))
	assert.Equal(t, Normal, Classify(50, nil))

	for m := 0.0; m <= 100; m += 0.5 {
		assert.NotEqual(t, Optimal, Classify(m, nil), "moisture %v", m)
	}
}

func TestClassify_SeverityNeverIncreasesWithMoisture(t *testing.T) {
	triples := []entities.Thresholds{
		{Critical: 10, Min: 20, Max: 30},
		{Critical: 25, Min: 25, Max: 25},
		{Critical: 0, Min: 50, Max: 100},
		{Critical: 12, Min: 25, Max: 60},
	}
	for _, th := range triples {
		th := th
		prev := Classify(-1, &th).Severity()
		for m := 0.0; m <= 110; m += 0.25 {
			got := Classify(m, &th)
			assert.Contains(t, []Status{Critical, Warning, Optimal, Normal}, got)
			assert.LessOrEqual(t, got.Severity(), prev, "thresholds %+v moisture %v", th, m)
			prev = got.Severity()
		}
	}
}

func TestOfField(t *testing.T) {
	plant := &entities.PlantType{CriticalMoisture: 20, MinMoisture: 35, MaxMoisture: 60}

	assert.Equal(t, Normal, OfField(entities.Field{PlantType: plant}), "no readings")

	f := entities.Field{
		PlantType: plant,
		SensorLogs: []entities.SensorLog{
			{Moisture: 50},
			{Moisture: 15},
		},
	}
	assert.Equal(t, Critical, OfField(f), "latest reading wins")

	f.PlantType = nil
	f.SensorLogs = append(f.SensorLogs, entities.SensorLog{Moisture: 45})
	assert.Equal(t, Warning, OfField(f))
}

func TestMoistureLevel(t *testing.T) {
	assert.Equal(t, LevelGood, MoistureLevel(60))
	assert.Equal(t, LevelFair, MoistureLevel(40))
	assert.Equal(t, LevelPoor, MoistureLevel(39.9))
}

func TestNeedsAttention(t *testing.T) {
	assert.True(t, Critical.NeedsAttention())
	assert.True(t, Warning.NeedsAttention())
	assert.False(t, Optimal.NeedsAttention())
	assert.False(t, Normal.NeedsAttention())
}
