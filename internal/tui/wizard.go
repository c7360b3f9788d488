package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
)

// wizardStep identifies the current step.
type wizardStep int

const (
	stepKind wizardStep = iota
	stepValues
	stepConfirm
)

// valueField identifies a field in the values step.
type valueField int

const (
	fieldCode valueField = iota
	fieldWeight
	fieldSpeed
	fieldCharacteristic
	fieldCount
)

// wizardModel drives the multi-step new boat wizard.
type wizardModel struct {
	step wizardStep

	// Step 1: kind
	kindList list.Model

	// Step 2: values
	cursor valueField
	inputs [fieldCount]textinput.Model
	err    error

	// Collected values
	kind boat.Kind
	boat *boat.Boat

	width  int
	height int
}

// kindItem implements list.Item for kind selection.
type kindItem struct {
	kind boat.Kind
}

func (k kindItem) Title() string { return k.kind.Spec().Display }
func (k kindItem) Description() string {
	s := k.kind.Spec()
	return fmt.Sprintf("%s | %g slots | %d days | weight %s | speed %s | %s %s",
		string(s.Prefix), s.BerthSpace, s.BerthTime, s.Weight, s.TopSpeed, s.CharacteristicName, s.Characteristic)
}
func (k kindItem) FilterValue() string { return k.kind.Spec().Display }

// wizardStyles
var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	wizardStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardActiveStepStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	wizardLabelStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	wizardValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))
)

func newWizardModel() wizardModel {
	items := make([]list.Item, 0, len(boat.Kinds()))
	for _, k := range boat.Kinds() {
		items = append(items, kindItem{kind: k})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 72, 16)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	w := wizardModel{step: stepKind, kindList: l}
	placeholders := [fieldCount]string{"random", "kilograms", "knots", ""}
	limits := [fieldCount]int{3, 6, 3, 4}
	for i := range w.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 20
		w.inputs[i] = ti
	}
	return w
}

func (w *wizardModel) Init() tea.Cmd {
	return nil
}

// Update processes a message and returns (done, boat, cmd).
// done=true with a non-nil boat means the wizard completed successfully.
// done=true with a nil boat means the wizard was cancelled.
func (w *wizardModel) Update(msg tea.Msg) (bool, *boat.Boat, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return true, nil, nil
		case tea.KeyEsc:
			return w.handleBack()
		}
	}

	switch w.step {
	case stepKind:
		return w.updateKind(msg)
	case stepValues:
		return w.updateValues(msg)
	case stepConfirm:
		return w.updateConfirm(msg)
	}

	return false, nil, nil
}

func (w *wizardModel) handleBack() (bool, *boat.Boat, tea.Cmd) {
	switch w.step {
	case stepKind:
		// Esc at first step cancels wizard
		return true, nil, nil
	case stepValues:
		w.step = stepKind
		w.blurAll()
		return false, nil, nil
	case stepConfirm:
		w.step = stepValues
		return false, nil, w.focusCurrent()
	}
	return false, nil, nil
}

func (w *wizardModel) updateKind(msg tea.Msg) (bool, *boat.Boat, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		if item, ok := w.kindList.SelectedItem().(kindItem); ok {
			w.selectKind(item.kind)
			return false, nil, w.focusCurrent()
		}
		return false, nil, nil
	}

	var cmd tea.Cmd
	w.kindList, cmd = w.kindList.Update(msg)
	return false, nil, cmd
}

// selectKind moves to the values step with mid-range defaults.
func (w *wizardModel) selectKind(k boat.Kind) {
	s := k.Spec()
	w.kind = k
	w.step = stepValues
	w.cursor = fieldWeight
	w.err = nil
	w.inputs[fieldCode].SetValue("")
	w.inputs[fieldWeight].SetValue(strconv.Itoa(midpoint(s.Weight)))
	w.inputs[fieldSpeed].SetValue(strconv.Itoa(midpoint(s.TopSpeed)))
	w.inputs[fieldCharacteristic].SetValue(strconv.Itoa(midpoint(s.Characteristic)))
	w.inputs[fieldCharacteristic].Placeholder = s.CharacteristicName
}

func midpoint(r boat.Range) int {
	return r.Min + (r.Max-r.Min)/2
}

func (w *wizardModel) blurAll() {
	for i := range w.inputs {
		w.inputs[i].Blur()
	}
}

func (w *wizardModel) focusCurrent() tea.Cmd {
	w.blurAll()
	return w.inputs[w.cursor].Focus()
}

func (w *wizardModel) updateValues(msg tea.Msg) (bool, *boat.Boat, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			b, err := w.build()
			if err != nil {
				w.err = err
				return false, nil, nil
			}
			w.err = nil
			w.boat = b
			w.step = stepConfirm
			w.blurAll()
			return false, nil, nil
		case tea.KeyUp, tea.KeyShiftTab:
			w.cursor = (w.cursor - 1 + fieldCount) % fieldCount
			return false, nil, w.focusCurrent()
		case tea.KeyDown, tea.KeyTab:
			w.cursor = (w.cursor + 1) % fieldCount
			return false, nil, w.focusCurrent()
		}
	}

	var cmd tea.Cmd
	w.inputs[w.cursor], cmd = w.inputs[w.cursor].Update(msg)
	return false, nil, cmd
}

// build validates the inputs against the kind's limits.
func (w *wizardModel) build() (*boat.Boat, error) {
	var values [fieldCount]int
	for _, f := range []valueField{fieldWeight, fieldSpeed, fieldCharacteristic} {
		raw := strings.TrimSpace(w.inputs[f].Value())
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", fieldName(f, w.kind))
		}
		values[f] = n
	}

	code := strings.TrimSpace(w.inputs[fieldCode].Value())
	if code == "" {
		return boat.New(w.kind, values[fieldWeight], values[fieldSpeed], values[fieldCharacteristic])
	}
	return boat.NewWithCode(w.kind, code, values[fieldWeight], values[fieldSpeed], values[fieldCharacteristic])
}

func fieldName(f valueField, k boat.Kind) string {
	switch f {
	case fieldCode:
		return "Code"
	case fieldWeight:
		return "Weight"
	case fieldSpeed:
		return "Top speed"
	default:
		return k.Spec().CharacteristicName
	}
}

func (w *wizardModel) updateConfirm(msg tea.Msg) (bool, *boat.Boat, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "y":
			return true, w.boat, nil
		case "n":
			// Restart wizard
			w.step = stepKind
			w.boat = nil
			w.err = nil
			return false, nil, nil
		}
	}
	return false, nil, nil
}

func (w *wizardModel) View() string {
	var b strings.Builder

	b.WriteString(wizardTitleStyle.Render("New Boat"))
	b.WriteString("\n")
	b.WriteString(w.progressBar())
	b.WriteString("\n\n")

	switch w.step {
	case stepKind:
		b.WriteString(wizardLabelStyle.Render("Select kind:"))
		b.WriteString("\n")
		b.WriteString(w.kindList.View())
	case stepValues:
		b.WriteString(wizardLabelStyle.Render(w.kind.Spec().Display + ":"))
		b.WriteString("\n\n")
		s := w.kind.Spec()
		b.WriteString(w.renderInput(fieldCode, "three letters, blank for random"))
		b.WriteString(w.renderInput(fieldWeight, s.Weight.String()+" kg"))
		b.WriteString(w.renderInput(fieldSpeed, s.TopSpeed.String()+" knots"))
		b.WriteString(w.renderInput(fieldCharacteristic, s.Characteristic.String()))
		if w.err != nil {
			b.WriteString("\n")
			b.WriteString(wizardErrorStyle.Render(w.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Tab to move, Enter to continue, Esc to go back."))
	case stepConfirm:
		b.WriteString(wizardLabelStyle.Render("Confirm:"))
		b.WriteString("\n\n")
		if w.boat != nil {
			b.WriteString(fmt.Sprintf("  Boat:     %s\n", wizardValueStyle.Render(w.boat.IdentityCode())))
			b.WriteString(fmt.Sprintf("  Kind:     %s\n", wizardValueStyle.Render(w.kind.Spec().Display)))
			b.WriteString(fmt.Sprintf("  Weight:   %s\n", wizardValueStyle.Render(strconv.Itoa(w.boat.Weight()))))
			b.WriteString(fmt.Sprintf("  Speed:    %s\n", wizardValueStyle.Render(strconv.Itoa(w.boat.TopSpeed()))))
			b.WriteString(fmt.Sprintf("  %-9s %s\n", w.boat.Characteristic()+":", wizardValueStyle.Render(strconv.Itoa(w.boat.CharacteristicValue()))))
		}
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Enter to offer, n to restart, Esc to go back."))
	}

	return b.String()
}

func (w *wizardModel) progressBar() string {
	steps := []string{"1. Kind", "2. Values", "3. Confirm"}

	var parts []string
	for i, label := range steps {
		if wizardStep(i) == w.step {
			parts = append(parts, wizardActiveStepStyle.Render(label))
		} else {
			parts = append(parts, wizardStepStyle.Render(label))
		}
	}

	return strings.Join(parts, wizardDimStyle.Render(" > "))
}

func (w *wizardModel) renderInput(field valueField, desc string) string {
	cursor := " "
	if w.cursor == field {
		cursor = ">"
	}
	line := fmt.Sprintf("  %s %-14s %s", cursor, fieldName(field, w.kind)+":", w.inputs[field].View())
	if w.cursor == field {
		line = selectedStyle.Render(line)
	}
	return line + "\n" + wizardDimStyle.Render("      "+desc) + "\n"
}
