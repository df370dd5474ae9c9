// Package tui provides the Bubble Tea calculator interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/verte-zerg/stepgoal/internal/input"
	"github.com/verte-zerg/stepgoal/internal/model"
	"github.com/verte-zerg/stepgoal/internal/projection"
	"github.com/verte-zerg/stepgoal/internal/session"
)

const (
	tabCalculator = iota
	tabPlan
)

const labelWidth = 16

type fieldRow struct {
	field model.Field
	label string
	unit  string
	input textinput.Model
}

var fieldLabels = map[model.Field][2]string{
	model.FieldAge:           {"Age", "years"},
	model.FieldGender:        {"Gender", ""},
	model.FieldActivity:      {"Activity", ""},
	model.FieldHeight:        {"Height", "cm"},
	model.FieldCurrentWeight: {"Current weight", "kg"},
	model.FieldTargetWeight:  {"Target weight", "kg"},
	model.FieldDeficit:       {"Daily deficit", "kcal"},
	model.FieldSteps:         {"Steps per day", "steps"},
}

// Model implements the Bubble Tea calculator UI.
type Model struct {
	ctx     context.Context
	session *session.Session
	log     *zap.Logger

	width  int
	height int

	tabs      []string
	activeTab int

	rows  []fieldRow
	focus int

	help   help.Model
	status string
	errMsg string

	form    *huh.Form
	profile *profileValues

	plan       projection.Plan
	chart      barchart.Model
	milestones table.Model
}

// NewModel constructs a calculator UI bound to a session.
func NewModel(ctx context.Context, s *session.Session, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		ctx:     ctx,
		session: s,
		log:     log,
		tabs:    []string{"Calculator", "Plan"},
		help:    help.New(),
	}
	m.initRows()
	m.syncInputs(false)
	m.focusRow()
	m.refreshPlan()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refreshPlan()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		switch {
		case key.Matches(msg, keys.SwitchTab):
			return m, m.switchTab()
		case key.Matches(msg, keys.Undo):
			m.undo()
			return m, nil
		case key.Matches(msg, keys.Profile):
			return m, m.openForm()
		}
		if m.activeTab == tabPlan {
			return m.updatePlan(msg)
		}
		return m.updateCalculator(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.activeTab == tabCalculator && m.rows[m.focus].field.Numeric() {
		var cmd tea.Cmd
		m.rows[m.focus].input, cmd = m.rows[m.focus].input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs()
	var body string
	switch {
	case m.form != nil:
		body = formStyle.Render(m.form.View())
	case m.activeTab == tabPlan:
		body = m.renderPlan()
	default:
		body = m.renderCalculator()
	}
	footer := m.renderFooter()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	bodyHeight := max(1, m.height-headerHeight-footerHeight)
	return strings.Join([]string{
		fitLines(header, m.width, headerHeight),
		fitLines(body, m.width, bodyHeight),
		fitLines(footer, m.width, footerHeight),
	}, "\n")
}

func (m *Model) initRows() {
	m.rows = make([]fieldRow, 0, len(model.Fields))
	for _, f := range model.Fields {
		labels := fieldLabels[f]
		row := fieldRow{field: f, label: labels[0], unit: labels[1]}
		if f.Numeric() {
			ti := textinput.New()
			ti.Prompt = ""
			ti.CharLimit = 12
			ti.Width = 12
			row.input = ti
		}
		m.rows = append(m.rows, row)
	}
}

func fieldValue(s model.State, f model.Field) float64 {
	switch f {
	case model.FieldAge:
		return float64(s.Profile.Age)
	case model.FieldHeight:
		return s.Profile.HeightCm
	case model.FieldCurrentWeight:
		return s.Profile.CurrentWeightKg
	case model.FieldTargetWeight:
		return s.TargetWeightKg
	case model.FieldDeficit:
		return s.Deficit
	case model.FieldSteps:
		return s.StepsPerDay
	default:
		return 0
	}
}

// syncInputs copies state values into the input boxes. The focused box is
// skipped while the user is typing into it.
func (m *Model) syncInputs(skipFocused bool) {
	for i := range m.rows {
		if skipFocused && i == m.focus {
			continue
		}
		m.syncRow(i)
	}
}

func (m *Model) syncRow(i int) {
	row := &m.rows[i]
	if !row.field.Numeric() {
		return
	}
	row.input.SetValue(input.Format(fieldValue(m.session.State(), row.field)))
}

func (m *Model) focusRow() tea.Cmd {
	row := &m.rows[m.focus]
	if !row.field.Numeric() {
		return nil
	}
	row.input.CursorEnd()
	return row.input.Focus()
}

func (m *Model) setFocus(idx int) tea.Cmd {
	count := len(m.rows)
	idx = (idx%count + count) % count
	if idx == m.focus {
		return nil
	}
	old := &m.rows[m.focus]
	if old.field.Numeric() {
		old.input.Blur()
	}
	m.syncRow(m.focus)
	m.focus = idx
	return m.focusRow()
}

func (m *Model) updateCalculator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, keys.Prev):
		return m, m.setFocus(m.focus - 1)
	}

	row := &m.rows[m.focus]
	if !row.field.Numeric() {
		switch {
		case key.Matches(msg, keys.Left):
			m.cycleOption(row.field, -1)
		case key.Matches(msg, keys.Right):
			m.cycleOption(row.field, 1)
		}
		return m, nil
	}

	before := row.input.Value()
	var cmd tea.Cmd
	row.input, cmd = row.input.Update(msg)
	if after := row.input.Value(); after != before {
		m.apply(input.ParseEdit(row.field, after))
	}
	return m, cmd
}

func (m *Model) cycleOption(f model.Field, delta int) {
	s := m.session.State()
	switch f {
	case model.FieldGender:
		idx := indexOf(model.Genders, s.Profile.Gender)
		next := model.Genders[wrap(idx+delta, len(model.Genders))]
		m.apply(model.Edit{Field: f, Gender: next})
	case model.FieldActivity:
		idx := indexOf(model.ActivityLevels, s.Activity)
		next := model.ActivityLevels[wrap(idx+delta, len(model.ActivityLevels))]
		m.apply(model.Edit{Field: f, Activity: next})
	}
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return (i%n + n) % n
}

func (m *Model) apply(e model.Edit) {
	pass, err := m.session.Apply(m.ctx, e)
	if err != nil {
		m.errMsg = err.Error()
		m.log.Warn("apply edit", zap.String("field", e.Field.String()), zap.Error(err))
	} else {
		m.errMsg = ""
	}
	m.status = fmt.Sprintf("%s = %s (%s pass)", e.Field, e.Value(), pass)
	m.syncInputs(true)
	m.refreshPlan()
}

func (m *Model) undo() {
	ok, err := m.session.Undo(m.ctx)
	if err != nil {
		m.errMsg = err.Error()
		m.log.Warn("undo", zap.Error(err))
		return
	}
	if !ok {
		m.status = "Nothing to undo"
		return
	}
	m.errMsg = ""
	m.status = "Undid last edit"
	m.syncInputs(false)
	m.focusRow()
	m.refreshPlan()
}

func (m *Model) switchTab() tea.Cmd {
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	row := &m.rows[m.focus]
	if m.activeTab != tabCalculator {
		if row.field.Numeric() {
			row.input.Blur()
		}
		m.milestones.Focus()
		return nil
	}
	m.milestones.Blur()
	return m.focusRow()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderCalculator() string {
	s := m.session.State()
	lines := make([]string, 0, len(m.rows)+2)
	for i, row := range m.rows {
		lines = append(lines, m.renderRow(s, i, row))
	}
	lines = append(lines, "", renderOutputs(m.session.Outputs(), s))
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(s model.State, i int, row fieldRow) string {
	marker := "  "
	label := labelStyle.Render(runewidth.FillRight(row.label, labelWidth))
	if i == m.focus {
		marker = focusedLabelStyle.Render("› ")
		label = focusedLabelStyle.Render(runewidth.FillRight(row.label, labelWidth))
	}

	var value string
	switch row.field {
	case model.FieldGender:
		value = selectorStyle.Render("‹ " + string(s.Profile.Gender) + " ›")
	case model.FieldActivity:
		value = selectorStyle.Render("‹ " + string(s.Activity) + " ›")
	default:
		value = row.input.View()
	}

	line := marker + label + value
	if row.unit != "" {
		line += " " + unitStyle.Render(row.unit)
	}
	if drives(s.Mode, row.field) {
		line += drivingStyle.Render("  ● drives days")
	}
	return line
}

func drives(mode model.Mode, f model.Field) bool {
	return (mode == model.DeficitDriven && f == model.FieldDeficit) ||
		(mode == model.StepsDriven && f == model.FieldSteps)
}

func renderOutputs(out session.Outputs, s model.State) string {
	cards := []string{
		metricCard("Required calories", fmt.Sprintf("%d kcal/day", out.RequiredCalories)),
		metricCard("Calories to burn", fmt.Sprintf("%.0f kcal", out.TotalCaloriesToLose)),
		metricCard("Expected days", strconv.Itoa(out.ExpectedDays)),
		metricCard("Target date", out.TargetDateLabel),
		metricCard("Mode", s.Mode.String()),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderFooter() string {
	lines := []string{m.help.View(keys)}
	switch {
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(truncateLine(m.errMsg, m.width)))
	case m.status != "":
		lines = append(lines, statusStyle.Render(truncateLine(m.status, m.width)))
	}
	return footerStyle.Render(strings.Join(lines, "\n"))
}
