package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aquasmart/api"
	"aquasmart/entities"
	"aquasmart/irrigation"
	"aquasmart/services"
	"aquasmart/session"
	"aquasmart/usecases"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse fields and start watering from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		m := newTUIModel(cmd.Context(), a.Sessions, a.Dashboard, a.Watering)
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

type stage int

const (
	stageLogin stage = iota
	stageLoading
	stageFields
	stageDetail
	stageWatering
)

type loggedInMsg struct{ user *entities.User }
type fieldsMsg []services.FieldView
type detailMsg struct {
	view     services.FieldView
	markdown string
}
type wateringMsg struct {
	run     *entities.WateringRun
	stopped bool
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type tuiModel struct {
	ctx       context.Context
	sessions  *session.Store
	dashboard *services.DashboardService
	watering  *usecases.WateringUseCase

	stage    stage
	inputs   []textinput.Model // email, password
	focus    int
	minutes  textinput.Model
	spinner  spinner.Model
	table    table.Model
	views    []services.FieldView
	selected *services.FieldView
	detail   string
	renderer *glamour.TermRenderer
	message  string
	quitting bool
}

func newTUIModel(ctx context.Context, sessions *session.Store, dashboard *services.DashboardService, watering *usecases.WateringUseCase) tuiModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40

	minutes := textinput.New()
	minutes.Placeholder = strconv.Itoa(usecases.WateringStep * 2)
	minutes.CharLimit = 3
	minutes.Width = 6

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Field", Width: 28},
			{Title: "Crop", Width: 14},
			{Title: "Moisture", Width: 10},
			{Title: "Temp", Width: 8},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	m := tuiModel{
		ctx:       ctx,
		sessions:  sessions,
		dashboard: dashboard,
		watering:  watering,
		stage:     stageLogin,
		inputs:    []textinput.Model{email, password},
		minutes:   minutes,
		spinner:   sp,
		table:     t,
		renderer:  renderer,
	}
	if sessions != nil && sessions.Current() != nil {
		m.stage = stageLoading
	}
	return m
}

func (m tuiModel) Init() tea.Cmd {
	if m.stage == stageLoading {
		return tea.Batch(m.spinner.Tick, m.loadFields())
	}
	return textinput.Blink
}

func (m tuiModel) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.sessions.Login(m.ctx, email, password)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{user}
	}
}

func (m tuiModel) loadFields() tea.Cmd {
	return func() tea.Msg {
		user, err := m.sessions.Require()
		if err != nil {
			return errMsg{err}
		}
		views, err := m.dashboard.FieldViews(m.ctx, user.ID)
		if err != nil {
			return errMsg{err}
		}
		return fieldsMsg(views)
	}
}

func (m tuiModel) loadDetail(view services.FieldView) tea.Cmd {
	return func() tea.Msg {
		advice := m.dashboard.FieldAdvice(m.ctx, view.ID)
		plan, ok := m.dashboard.Plans().Get(view.ID)
		var p *entities.WeeklyPlan
		if ok {
			p = &plan
		}
		return detailMsg{view: view, markdown: detailMarkdown(view, advice, p, time.Now())}
	}
}

func (m tuiModel) startWatering(view services.FieldView, minutes int) tea.Cmd {
	return func() tea.Msg {
		user, err := m.sessions.Require()
		if err != nil {
			return errMsg{err}
		}
		run, err := m.watering.Start(m.ctx, usecases.WateringRequest{
			UserID: user.ID, FieldID: view.ID, FieldName: view.Name, Minutes: minutes,
		})
		if err != nil {
			return errMsg{err}
		}
		return wateringMsg{run: run}
	}
}

func (m tuiModel) stopWatering() tea.Cmd {
	return func() tea.Msg {
		run, err := m.watering.Stop(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return wateringMsg{run: run, stopped: true}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.updateKeys(msg)

	case loggedInMsg:
		m.message = successStyle.Render("✓ Logged in as " + msg.user.DisplayName())
		m.stage = stageLoading
		return m, tea.Batch(m.spinner.Tick, m.loadFields())

	case fieldsMsg:
		m.views = []services.FieldView(msg)
		m.table.SetRows(fieldRows(m.views))
		m.stage = stageFields
		return m, nil

	case detailMsg:
		view := msg.view
		m.selected = &view
		m.detail = msg.markdown
		if m.renderer != nil {
			if out, err := m.renderer.Render(msg.markdown); err == nil {
				m.detail = out
			}
		}
		m.stage = stageDetail
		return m, nil

	case wateringMsg:
		if msg.stopped {
			m.message = warningStyle.Render(fmt.Sprintf("■ Watering of %s stopped", msg.run.FieldName))
		} else {
			m.message = successStyle.Render(fmt.Sprintf("✓ Watering %s for %d min", msg.run.FieldName, msg.run.Minutes))
		}
		m.stage = stageDetail
		return m, nil

	case errMsg:
		m.message = errorStyle.Render("✗ " + errorText(msg.err))
		switch m.stage {
		case stageLoading:
			if m.sessions.Current() == nil {
				m.stage = stageLogin
			} else {
				m.stage = stageFields
			}
		case stageWatering:
			m.stage = stageDetail
		}
		return m, nil

	case spinner.TickMsg:
		if m.stage != stageLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m tuiModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageLogin:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()
		case "enter":
			if m.focus == 0 {
				m.inputs[0].Blur()
				m.focus = 1
				return m, m.inputs[1].Focus()
			}
			email, password := strings.TrimSpace(m.inputs[0].Value()), m.inputs[1].Value()
			if email == "" || password == "" {
				m.message = errorStyle.Render("✗ Email and password are required")
				return m, nil
			}
			m.stage = stageLoading
			m.message = ""
			return m, tea.Batch(m.spinner.Tick, m.login(email, password))
		case "esc":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd

	case stageFields:
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.stage = stageLoading
			return m, tea.Batch(m.spinner.Tick, m.loadFields())
		case "l":
			if err := m.sessions.Logout(); err != nil {
				m.message = errorStyle.Render("✗ " + err.Error())
				return m, nil
			}
			m.message = "Logged out"
			m.stage = stageLogin
			m.inputs[1].SetValue("")
			return m, nil
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.views) {
				return m, nil
			}
			m.stage = stageLoading
			return m, tea.Batch(m.spinner.Tick, m.loadDetail(m.views[idx]))
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case stageDetail:
		switch msg.String() {
		case "esc", "backspace":
			m.stage = stageFields
			m.message = ""
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "w":
			m.stage = stageWatering
			m.minutes.SetValue("")
			return m, m.minutes.Focus()
		case "s":
			return m, m.stopWatering()
		}
		return m, nil

	case stageWatering:
		switch msg.String() {
		case "esc":
			m.minutes.Blur()
			m.stage = stageDetail
			return m, nil
		case "enter":
			minutes, err := strconv.Atoi(strings.TrimSpace(m.minutes.Value()))
			if err != nil {
				minutes = usecases.WateringStep * 2
			}
			m.minutes.Blur()
			return m, m.startWatering(*m.selected, minutes)
		}
		var cmd tea.Cmd
		m.minutes, cmd = m.minutes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("💧 AquaSmart"))
	s.WriteString("\n")

	switch m.stage {
	case stageLogin:
		s.WriteString(promptStyle.Render("Log in to continue") + "\n\n")
		for _, in := range m.inputs {
			s.WriteString(in.View() + "\n")
		}
		s.WriteString(helpStyle.Render("\ntab switch • enter submit • esc quit") + "\n")

	case stageLoading:
		s.WriteString(m.spinner.View() + " Loading...\n")

	case stageFields:
		s.WriteString(m.table.View() + "\n")
		s.WriteString(helpStyle.Render("↑/↓ move • enter details • r refresh • l logout • q quit") + "\n")

	case stageDetail:
		s.WriteString(m.detail + "\n")
		s.WriteString(helpStyle.Render("w water • s stop watering • esc back • q quit") + "\n")

	case stageWatering:
		name := ""
		if m.selected != nil {
			name = m.selected.Name
		}
		s.WriteString(promptStyle.Render(fmt.Sprintf("Water %s for how many minutes? (%d-%d)",
			name, usecases.MinWateringMinutes, usecases.MaxWateringMinutes)) + "\n")
		s.WriteString(m.minutes.View() + "\n")
		s.WriteString(helpStyle.Render("enter start • esc cancel") + "\n")
	}

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}

// errorText prefers the backend's own message. Local errors such as a
// busy pump are shown as they are.
func errorText(err error) string {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) && !api.IsTransport(err) && !errors.Is(err, api.ErrDecode) {
		return err.Error()
	}
	if api.Classify(err) == api.KindServer {
		return api.Detail(err)
	}
	return api.UserMessage(err)
}

func fieldRows(views []services.FieldView) []table.Row {
	rows := make([]table.Row, 0, len(views))
	for _, v := range views {
		crop := "-"
		if v.PlantType != nil {
			crop = v.PlantType.Name
		}
		moisture, temp := "-", "-"
		if v.Latest != nil {
			moisture = fmt.Sprintf("%.1f%%", v.Latest.Moisture)
			temp = fmt.Sprintf("%.1f°C", v.Latest.Temperature)
		}
		rows = append(rows, table.Row{v.Name, crop, moisture, temp, v.StatusLabel})
	}
	return rows
}

// detailMarkdown renders a field page. advice and plan may be nil.
func detailMarkdown(v services.FieldView, advice *entities.IrrigationDecision, plan *entities.WeeklyPlan, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", v.Name)
	if v.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n\n", v.Location)
	}

	fmt.Fprintf(&b, "**Status:** %s", v.StatusLabel)
	if v.Latest != nil {
		fmt.Fprintf(&b, " · moisture %.1f%% (%s) · %.1f°C", v.Latest.Moisture, v.MoistureLevel, v.Latest.Temperature)
	}
	b.WriteString("\n\n")
	if v.Status.NeedsAttention() {
		b.WriteString("> Needs manual watering\n\n")
	}
	if v.PlantType != nil {
		t := v.PlantType.Thresholds()
		fmt.Fprintf(&b, "**Crop:** %s (critical %.0f%%, optimal %.0f-%.0f%%)\n\n", v.PlantType.Name, t.Critical, t.Min, t.Max)
	}
	if v.AreaDonum != nil {
		fmt.Fprintf(&b, "**Area:** %.1f dönüm", *v.AreaDonum)
		if v.Revenue != nil {
			fmt.Fprintf(&b, " · estimated revenue ₺%.0f", *v.Revenue)
		}
		b.WriteString("\n\n")
	}

	if advice != nil && (advice.Pump != "" || advice.Decision != "") {
		b.WriteString("## Advice\n\n")
		if advice.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", advice.Summary)
		}
		if advice.Action != "" {
			fmt.Fprintf(&b, "- Action: %s\n", advice.Action)
		}
		if advice.Decision != "" {
			fmt.Fprintf(&b, "- Decision: %s\n", advice.Decision)
		}
		if advice.Reason != "" {
			fmt.Fprintf(&b, "- Reason: %s\n", advice.Reason)
		}
		if advice.Pump != "" {
			fmt.Fprintf(&b, "- Pump: %s\n", advice.PumpState())
		}
		b.WriteString("\n")
	}

	if plan != nil {
		b.WriteString("## Weekly plan\n\n| Day | Slots | Litres | Minutes |\n|---|---|---|---|\n")
		for _, d := range irrigation.Summarize(*plan, now) {
			day := d.Day
			if d.IsToday {
				day = "**" + day + "**"
			}
			slots := make([]string, 0, len(d.Slots))
			for _, s := range d.Slots {
				slots = append(slots, s.Start+"-"+s.End)
			}
			fmt.Fprintf(&b, "| %s | %s | %.0f | %d |\n", day, strings.Join(slots, ", "), d.Amount, d.Minutes)
		}
		fmt.Fprintf(&b, "\nWeekly total: **%.0f L**\n\n", irrigation.WeeklyTotal(*plan))
		if next, ok := irrigation.NextSlot(*plan, now); ok {
			fmt.Fprintf(&b, "Next watering: %s\n\n", describeUpcoming(next))
		}
	}

	if v.PlantType != nil {
		if tips := v.PlantType.TipList(); len(tips) > 0 {
			b.WriteString("## Tips\n\n")
			for _, tip := range tips {
				fmt.Fprintf(&b, "- %s\n", tip)
			}
		}
	}
	return b.String()
}
