package main

import (
	"fmt"
	"strconv"
	"time"

	"aquasmart/entities"
	"aquasmart/irrigation"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [field-id]",
	Short: "Show weekly irrigation plans",
	Long: `Without arguments lists every plan with its weekly total.
With a field id prints that field's week and the next watering slot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			printPlanList(a.Plans.All())
			return nil
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid field id %q", args[0])
		}
		plan, ok := a.Plans.Get(id)
		if !ok {
			return fmt.Errorf("no irrigation plan for field %d", id)
		}
		printPlan(plan, time.Now())
		return nil
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write all plans to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		plans := make(map[int]entities.WeeklyPlan)
		for _, p := range a.Plans.All() {
			plans[p.FieldID] = p
		}
		if err := irrigation.WritePlansXLSX(args[0], plans); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Plans written to " + args[0]))
		return nil
	},
}

func init() {
	planCmd.AddCommand(planExportCmd)
}

func printPlanList(plans []entities.WeeklyPlan) {
	fmt.Println(planListTable(plans))
}

func planListTable(plans []entities.WeeklyPlan) *ltable.Table {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("FIELD", "NAME", "SLOTS", "WEEKLY L", "MINUTES")
	for _, p := range plans {
		t.Row(strconv.Itoa(p.FieldID), p.FieldName, strconv.Itoa(irrigation.SlotCount(p)),
			fmt.Sprintf("%.0f", irrigation.WeeklyTotal(p)), strconv.Itoa(irrigation.TotalMinutes(p)))
	}
	return t
}

func printPlan(plan entities.WeeklyPlan, now time.Time) {
	fmt.Println(titleStyle.Render(plan.FieldName))
	fmt.Println(planWeekTable(plan, now))
	fmt.Printf("\nWeekly total: %.0f L over %d min\n", irrigation.WeeklyTotal(plan), irrigation.TotalMinutes(plan))
	if next, ok := irrigation.NextSlot(plan, now); ok {
		fmt.Println("Next: " + describeUpcoming(next))
	}
}

// planWeekTable has one row per slot; empty days get a single dash row.
func planWeekTable(plan entities.WeeklyPlan, now time.Time) *ltable.Table {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("DAY", "TIME", "LITRES", "NOTE")
	for _, day := range irrigation.Summarize(plan, now) {
		label := day.Day
		if day.IsToday {
			label = "> " + label
		}
		if len(day.Slots) == 0 {
			t.Row(label, "-", "", "")
			continue
		}
		for i, s := range day.Slots {
			if i > 0 {
				label = ""
			}
			t.Row(label, s.Start+"-"+s.End, fmt.Sprintf("%.0f", s.Amount), s.Note)
		}
	}
	return t
}

func describeUpcoming(u irrigation.Upcoming) string {
	when := u.Day
	switch {
	case u.IsToday:
		when = "today"
	case u.DaysAway == 1:
		when = "tomorrow"
	}
	return fmt.Sprintf("%s %s-%s, %.0f L", when, u.Slot.Start, u.Slot.End, u.Slot.Amount)
}
