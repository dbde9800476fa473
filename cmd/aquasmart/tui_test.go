package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"aquasmart/api"
	"aquasmart/entities"
	"aquasmart/irrigation"
	"aquasmart/services"
	"aquasmart/status"
	"aquasmart/usecases"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() services.FieldView {
	area, donum, revenue := 5000.0, 5.0, 330000.0
	return services.FieldView{
		Field: entities.Field{
			ID: 1, Name: "Ayaş Domates Serası", Location: "Ayaş",
			PlantType: &entities.PlantType{ID: 1, Name: "Domates", CriticalMoisture: 30, MinMoisture: 50, MaxMoisture: 80,
				Tips: `["Sabah sulayın"]`},
		},
		Latest:        &entities.SensorLog{Moisture: 25, Temperature: 21.5},
		Status:        status.Critical,
		StatusLabel:   "Critical",
		MoistureLevel: status.MoistureLevel(25),
		Estimate:      services.Estimate{AreaM2: &area, AreaDonum: &donum, Revenue: &revenue},
	}
}

func TestFieldRows(t *testing.T) {
	bare := services.FieldView{Field: entities.Field{ID: 2, Name: "Boş"}, StatusLabel: "Normal"}
	rows := fieldRows([]services.FieldView{sampleView(), bare})
	assert.Equal(t, []table.Row{
		{"Ayaş Domates Serası", "Domates", "25.0%", "21.5°C", "Critical"},
		{"Boş", "-", "-", "-", "Normal"},
	}, rows)
}

func TestDetailMarkdown(t *testing.T) {
	plan := entities.WeeklyPlan{FieldID: 1, FieldName: "Ayaş", Days: []entities.DayPlan{
		{Day: "Cuma", Slots: []entities.Slot{{Start: "07:00", End: "07:30", Amount: 90}}},
	}}
	advice := &entities.IrrigationDecision{Pump: "TAM AÇ", Action: "Sulama başlat"}
	thursday := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	md := detailMarkdown(sampleView(), advice, &plan, thursday)
	assert.Contains(t, md, "# Ayaş Domates Serası")
	assert.Contains(t, md, "Needs manual watering")
	assert.Contains(t, md, "critical 30%, optimal 50-80%")
	assert.Contains(t, md, "estimated revenue ₺330000")
	assert.Contains(t, md, "- Pump: open")
	assert.Contains(t, md, "| Cuma | 07:00-07:30 | 90 | 30 |")
	assert.Contains(t, md, "Next watering: tomorrow 07:00-07:30, 90 L")
	assert.Contains(t, md, "- Sabah sulayın")

	md = detailMarkdown(services.FieldView{Field: entities.Field{Name: "Boş"}, StatusLabel: "Normal"}, nil, nil, thursday)
	assert.NotContains(t, md, "## Advice")
	assert.NotContains(t, md, "## Weekly plan")
}

func TestDescribeUpcoming(t *testing.T) {
	slot := entities.Slot{Start: "06:00", End: "06:45", Amount: 120}
	assert.Equal(t, "today 06:00-06:45, 120 L", describeUpcoming(irrigation.Upcoming{Slot: slot, IsToday: true}))
	assert.Equal(t, "Pazar 06:00-06:45, 120 L", describeUpcoming(irrigation.Upcoming{Slot: slot, Day: "Pazar", DaysAway: 3}))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, usecases.ErrWateringActive.Error(), errorText(usecases.ErrWateringActive))
	assert.Equal(t, "boom", errorText(&api.APIError{StatusCode: 500, Detail: "boom"}))
	assert.Equal(t, "Wrong password. Please try again.", errorText(&api.APIError{StatusCode: 401}))
	assert.Equal(t, "Backend unreachable. Check your connection and try again.", errorText(context.DeadlineExceeded))
	assert.Equal(t, "plain", errorText(errors.New("plain")))
	assert.Equal(t, "Something went wrong. Please try again.", errorText(fmt.Errorf("decode: %w", api.ErrDecode)))
}

func TestModelShowsFields(t *testing.T) {
	m := newTUIModel(context.Background(), nil, nil, nil)
	assert.Equal(t, stageLogin, m.stage)

	next, _ := m.Update(fieldsMsg{sampleView()})
	m = next.(tuiModel)
	assert.Equal(t, stageFields, m.stage)
	assert.Len(t, m.table.Rows(), 1)
	assert.Contains(t, m.View(), "Ayaş Domates Serası")
}

func TestModelLoginRequiresBothInputs(t *testing.T) {
	m := newTUIModel(context.Background(), nil, nil, nil)
	m.focus = 1

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(tuiModel)
	assert.Nil(t, cmd)
	assert.Equal(t, stageLogin, m.stage)
	assert.Contains(t, m.message, "required")
}

func TestModelDetailAndBack(t *testing.T) {
	m := newTUIModel(context.Background(), nil, nil, nil)
	next, _ := m.Update(detailMsg{view: sampleView(), markdown: "# Ayaş"})
	m = next.(tuiModel)
	require.Equal(t, stageDetail, m.stage)
	require.NotNil(t, m.selected)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = next.(tuiModel)
	assert.Equal(t, stageWatering, m.stage)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(tuiModel)
	assert.Equal(t, stageDetail, m.stage)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(tuiModel)
	assert.Equal(t, stageFields, m.stage)
}

func TestPlanTables(t *testing.T) {
	plan := entities.WeeklyPlan{FieldID: 3, FieldName: "Haymana", Days: []entities.DayPlan{
		{Day: "Pazartesi", Slots: []entities.Slot{
			{Start: "06:00", End: "06:45", Amount: 120, Note: "Sabah"},
			{Start: "18:00", End: "18:15", Amount: 40},
		}},
	}}
	monday := time.Date(2026, 10, 12, 5, 0, 0, 0, time.UTC)

	week := planWeekTable(plan, monday).String()
	assert.Contains(t, week, "> Pazartesi")
	assert.Contains(t, week, "06:00-06:45")
	assert.Contains(t, week, "18:00-18:15")
	assert.Contains(t, week, "Pazar")

	list := planListTable([]entities.WeeklyPlan{plan}).String()
	assert.Contains(t, list, "Haymana")
	assert.Contains(t, list, "160")
}
