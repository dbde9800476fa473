package irrigation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"aquasmart/entities"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

type planFile struct {
	Plans []entities.WeeklyPlan `yaml:"plans"`
}

// LoadPlans picks the loader from the file extension.
func LoadPlans(path string) (map[int]entities.WeeklyPlan, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadPlansXLSX(path)
	case ".yaml", ".yml":
		return LoadPlansYAML(path)
	}
	return nil, fmt.Errorf("unsupported plan file %s", path)
}

// LoadPlansYAML reads a `plans:` list keyed by field_id.
func LoadPlansYAML(path string) (map[int]entities.WeeklyPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans: %w", err)
	}
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse plans %s: %w", path, err)
	}
	return index(file.Plans)
}

// planColumns is the header of the plan sheet; one row per slot. A day with
// no slots needs no row.
var planColumns = []string{"field_id", "field_name", "day", "start", "end", "amount", "note"}

// LoadPlansXLSX reads the first sheet of a workbook laid out as planColumns.
func LoadPlansXLSX(path string) (map[int]entities.WeeklyPlan, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open plans: %w", err)
	}
	defer x.Close()

	rows, err := x.GetRows(x.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read plan sheet: %w", err)
	}

	byField := map[int]*entities.WeeklyPlan{}
	var order []int
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue // header
		}
		for len(row) < len(planColumns) {
			row = append(row, "")
		}
		fieldID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: field_id %q: %w", i+1, row[0], err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: amount %q: %w", i+1, row[5], err)
		}

		plan, ok := byField[fieldID]
		if !ok {
			plan = &entities.WeeklyPlan{FieldID: fieldID, FieldName: row[1]}
			byField[fieldID] = plan
			order = append(order, fieldID)
		}
		slot := entities.Slot{Start: row[3], End: row[4], Amount: amount, Note: row[6]}
		plan.Days = appendSlot(plan.Days, row[2], slot)
	}

	plans := make([]entities.WeeklyPlan, 0, len(order))
	for _, id := range order {
		plans = append(plans, *byField[id])
	}
	return index(plans)
}

// WritePlansXLSX exports plans in the layout LoadPlansXLSX reads.
func WritePlansXLSX(path string, plans map[int]entities.WeeklyPlan) error {
	x := excelize.NewFile()
	defer x.Close()

	sheet := x.GetSheetName(0)
	if err := x.SetSheetRow(sheet, "A1", &planColumns); err != nil {
		return err
	}

	ids := make([]int, 0, len(plans))
	for id := range plans {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	r := 2
	for _, id := range ids {
		plan := plans[id]
		week := Week(plan)
		for _, day := range week {
			for _, slot := range day.Slots {
				row := []any{plan.FieldID, plan.FieldName, day.Day, slot.Start, slot.End, slot.Amount, slot.Note}
				cell, err := excelize.CoordinatesToCellName(1, r)
				if err != nil {
					return err
				}
				if err := x.SetSheetRow(sheet, cell, &row); err != nil {
					return err
				}
				r++
			}
		}
	}
	return x.SaveAs(path)
}

func appendSlot(days []entities.DayPlan, day string, slot entities.Slot) []entities.DayPlan {
	for i := range days {
		if days[i].Day == day {
			days[i].Slots = append(days[i].Slots, slot)
			return days
		}
	}
	return append(days, entities.DayPlan{Day: day, Slots: []entities.Slot{slot}})
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func index(plans []entities.WeeklyPlan) (map[int]entities.WeeklyPlan, error) {
	out := make(map[int]entities.WeeklyPlan, len(plans))
	for _, p := range plans {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, dup := out[p.FieldID]; dup {
			return nil, fmt.Errorf("duplicate plan for field %d", p.FieldID)
		}
		out[p.FieldID] = p
	}
	return out, nil
}
