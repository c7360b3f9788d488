// Package tui provides the terminal dashboard for harbor-ctl
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

// harborChangedMsg is sent when the harbor changes outside the dashboard.
type harborChangedMsg struct{}

// logChangedMsg is sent when the audit log file changes.
type logChangedMsg struct{}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

type keyMap struct {
	Add      key.Binding
	New      key.Binding
	Remove   key.Binding
	Tick     key.Binding
	Simulate key.Binding
	Reset    key.Binding
	Save     key.Binding
	Load     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.New, k.Remove, k.Tick, k.Simulate, k.Reset, k.Save, k.Load, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.New, k.Remove},
		{k.Tick, k.Simulate, k.Reset},
		{k.Save, k.Load, k.Quit},
	}
}

var keys = keyMap{
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "random boat")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new boat")),
	Remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
	Tick:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next day")),
	Simulate: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "simulate")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Save:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save")),
	Load:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model for the harbor dashboard
type Model struct {
	ctx context.Context
	ctl *control.Control

	table  table.Model
	help   help.Model
	wizard *wizardModel

	stats   control.Stats
	docks   []*dock.Dock
	lastLog string
	status  string
	err     error

	quitting bool
	width    int
	height   int
}

var tableColumns = []table.Column{
	{Title: "Dock", Width: 4},
	{Title: "Slot", Width: 4},
	{Title: "Boat", Width: 7},
	{Title: "Kind", Width: 12},
	{Title: "Weight", Width: 6},
	{Title: "Speed", Width: 5},
	{Title: "Day", Width: 3},
	{Title: "Left", Width: 4},
}

// NewModel creates a dashboard over ctl. Background drivers started from
// the dashboard run under ctx.
func NewModel(ctx context.Context, ctl *control.Control) Model {
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Selected = selectedStyle
	t.SetStyles(s)

	m := Model{
		ctx:   ctx,
		ctl:   ctl,
		table: t,
		help:  help.New(),
	}
	m.refresh()
	m.refreshLog()
	return m
}

// refresh reloads the harbor view.
func (m *Model) refresh() {
	m.stats = m.ctl.Stats()
	m.ctl.View(func(h port.Harbor) { m.docks = h.Docks() })
	m.table.SetRows(tableRows(m.ctl.Rows()))
}

func (m *Model) refreshLog() {
	line, err := m.ctl.LastLogLine()
	if err != nil {
		m.lastLog = ""
		return
	}
	m.lastLog = line
}

// tableRows lists occupied slots. A boat spanning several slots is shown
// once, at its first slot.
func tableRows(rows []port.Row) []table.Row {
	var out []table.Row
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.Boat == nil {
			continue
		}
		id := r.Boat.IdentityCode()
		if seen[id] {
			continue
		}
		seen[id] = true
		slot := strconv.Itoa(r.Slot)
		if n := r.Boat.Slots(); n > 1 {
			slot = fmt.Sprintf("%d-%d", r.Slot, r.Slot+n-1)
		}
		out = append(out, table.Row{
			strconv.Itoa(r.Dock),
			slot,
			id,
			r.Boat.Kind().Spec().Display,
			strconv.Itoa(r.Boat.Weight()),
			strconv.Itoa(r.Boat.TopSpeed()),
			strconv.Itoa(r.Days),
			strconv.Itoa(r.DaysLeft),
		})
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-len(m.docks)-12, 3))
		m.help.Width = msg.Width
		return m, nil

	case harborChangedMsg:
		m.refresh()
		return m, nil

	case logChangedMsg:
		m.refreshLog()
		return m, nil
	}

	if m.wizard != nil {
		return m.updateWizard(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Add):
			b, ok, err := m.ctl.AddRandom()
			m.report(err, admitted(b.IdentityCode(), ok))

		case key.Matches(msg, keys.New):
			w := newWizardModel()
			m.wizard = &w
			return m, w.Init()

		case key.Matches(msg, keys.Remove):
			row := m.table.SelectedRow()
			if row == nil {
				m.status = "no boat selected"
				break
			}
			b, err := m.ctl.Remove(row[2])
			if err == nil {
				m.report(nil, b.IdentityCode()+" removed")
			} else {
				m.report(err, "")
			}

		case key.Matches(msg, keys.Tick):
			left := m.ctl.TickDays(1)
			m.report(nil, fmt.Sprintf("day %s, %d left", m.ctl.Stats().Date, len(left)))

		case key.Matches(msg, keys.Simulate):
			if m.ctl.SimulationRunning() {
				m.report(m.ctl.StopSimulation(m.ctx), "simulation stopped")
			} else {
				m.ctl.StartSimulation(m.ctx)
				m.report(nil, "simulation started")
			}

		case key.Matches(msg, keys.Reset):
			m.report(m.ctl.Reset(nil), "harbor reset")

		case key.Matches(msg, keys.Save):
			m.report(m.ctl.Save(m.ctx), "harbor saved")

		case key.Matches(msg, keys.Load):
			m.report(m.ctl.Load(m.ctx), "harbor loaded")

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		m.refresh()
		m.refreshLog()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, b, cmd := m.wizard.Update(msg)
	if !done {
		return m, cmd
	}
	m.wizard = nil
	if b == nil {
		m.status = "cancelled"
		return m, nil
	}
	ok, err := m.ctl.Add(b)
	m.report(err, admitted(b.IdentityCode(), ok))
	m.refresh()
	m.refreshLog()
	return m, nil
}

func admitted(id string, ok bool) string {
	if ok {
		return id + " berthed"
	}
	return id + " turned away"
}

// report records the outcome of an action for the status line.
func (m *Model) report(err error, success string) {
	m.err = err
	if err == nil {
		m.status = success
	} else {
		m.status = ""
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.wizard != nil {
		return m.wizard.View()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Firefly Harbor"))
	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n\n")
	b.WriteString(renderGrid(m.docks, m.width))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(legend()))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")
	if m.lastLog != "" {
		b.WriteString(logStyle.Render(m.lastLog))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(keys)))
	return b.String()
}

func (m Model) summary() string {
	s := m.stats
	sim := "stopped"
	if s.Simulating {
		sim = "running"
	}
	return statusStyle.Render(fmt.Sprintf(
		"%s | %d boats | %d/%d slots free (%.0f%%) | %d kg | avg %.1f kn | %d left today | %d turned away | sim %s",
		s.Date, s.Boats, s.FreeSlots, s.Slots, s.FreeFraction*100, s.TotalWeight, s.AverageSpeed, s.LeftToday, s.TurnedAway, sim))
}

// Run runs the dashboard until the user quits.
func Run(ctx context.Context, ctl *control.Control) error {
	p := tea.NewProgram(NewModel(ctx, ctl), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send from a fresh goroutine: changes made inside Update notify on
	// the event loop goroutine, which cannot receive its own message.
	ctl.Subscribe(func(e control.Event) {
		switch e {
		case control.EventHarbor:
			go p.Send(harborChangedMsg{})
		case control.EventLog:
			go p.Send(logChangedMsg{})
		}
	})
	ctl.StartLogWatcher(ctx)
	defer func() { _ = ctl.StopLogWatcher(context.Background()) }()

	_, err := p.Run()
	return err
}
