package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/verte-zerg/stepgoal/internal/input"
	"github.com/verte-zerg/stepgoal/internal/model"
)

type profileValues struct {
	age      string
	gender   string
	activity string
	height   string
	weight   string
}

func (m *Model) openForm() tea.Cmd {
	s := m.session.State()
	m.profile = &profileValues{
		age:      input.Format(float64(s.Profile.Age)),
		gender:   string(s.Profile.Gender),
		activity: string(s.Activity),
		height:   input.Format(s.Profile.HeightCm),
		weight:   input.Format(s.Profile.CurrentWeightKg),
	}

	genderOptions := make([]huh.Option[string], len(model.Genders))
	for i, g := range model.Genders {
		genderOptions[i] = huh.NewOption(string(g), string(g))
	}
	activityOptions := make([]huh.Option[string], len(model.ActivityLevels))
	for i, a := range model.ActivityLevels {
		activityOptions[i] = huh.NewOption(string(a), string(a))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Age (years)").Value(&m.profile.age),
			huh.NewSelect[string]().Title("Gender").Options(genderOptions...).Value(&m.profile.gender),
			huh.NewSelect[string]().Title("Activity").Options(activityOptions...).Value(&m.profile.activity),
			huh.NewInput().Title("Height (cm)").Value(&m.profile.height),
			huh.NewInput().Title("Current weight (kg)").Value(&m.profile.weight),
		).Title("Profile"),
	).WithShowHelp(true).WithShowErrors(true)

	row := &m.rows[m.focus]
	if row.field.Numeric() {
		row.input.Blur()
	}
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		return m, m.closeForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyProfile(*m.profile)
		return m, m.closeForm()
	case huh.StateAborted:
		return m, m.closeForm()
	}
	return m, cmd
}

func (m *Model) closeForm() tea.Cmd {
	m.form = nil
	m.profile = nil
	if m.activeTab == tabCalculator {
		return m.focusRow()
	}
	return nil
}

// applyProfile sends every changed profile value through the session, in
// field order, so each one is its own undoable edit.
func (m *Model) applyProfile(v profileValues) {
	edits := []model.Edit{
		input.ParseEdit(model.FieldAge, v.age),
		input.ParseEdit(model.FieldGender, v.gender),
		input.ParseEdit(model.FieldActivity, v.activity),
		input.ParseEdit(model.FieldHeight, v.height),
		input.ParseEdit(model.FieldCurrentWeight, v.weight),
	}
	applied := 0
	for _, e := range edits {
		if !changes(m.session.State(), e) {
			continue
		}
		m.apply(e)
		applied++
	}
	if applied == 0 {
		m.status = "Profile unchanged"
	}
	m.syncInputs(false)
}

func changes(s model.State, e model.Edit) bool {
	switch e.Field {
	case model.FieldGender:
		return s.Profile.Gender != e.Gender
	case model.FieldActivity:
		return s.Activity != e.Activity
	default:
		return fieldValue(s, e.Field) != e.Number
	}
}
