package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stepgoal/internal/projection"
)

const (
	chartHeight   = 10
	minChartWidth = 20
	// Each bar needs a column plus a gap.
	barSlot = 4
)

// refreshPlan rebuilds the projection and its widgets from the session.
func (m *Model) refreshPlan() {
	m.plan = projection.Build(m.session.State(), m.session.Now())
	m.buildChart()
	m.buildTable()
}

func (m *Model) chartWidth() int {
	return max(minChartWidth, m.width-4)
}

func (m *Model) buildChart() {
	width := m.chartWidth()
	m.chart = barchart.New(width, chartHeight)
	if len(m.plan.Milestones) == 0 {
		return
	}

	milestones := sampleMilestones(m.plan.Milestones, max(1, width/barSlot))
	bars := make([]barchart.BarData, 0, len(milestones))
	for _, ms := range milestones {
		bars = append(bars, barchart.BarData{
			Label: "W" + strconv.Itoa(ms.Week),
			Values: []barchart.BarValue{{
				Name:  "kg above target",
				Value: ms.WeightKg - m.plan.TargetWeightKg,
				Style: barStyle,
			}},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

// sampleMilestones keeps at most limit milestones, always including the last.
func sampleMilestones(ms []projection.Milestone, limit int) []projection.Milestone {
	if len(ms) <= limit {
		return ms
	}
	step := (len(ms) + limit - 1) / limit
	out := make([]projection.Milestone, 0, limit+1)
	for i := 0; i < len(ms); i += step {
		out = append(out, ms[i])
	}
	if out[len(out)-1].Day != ms[len(ms)-1].Day {
		out = append(out, ms[len(ms)-1])
	}
	return out
}

func (m *Model) buildTable() {
	columns := []table.Column{
		{Title: "Week", Width: 5},
		{Title: "Day", Width: 6},
		{Title: "Date", Width: 14},
		{Title: "Weight (kg)", Width: 12},
		{Title: "Burned (kcal)", Width: 14},
	}
	rows := make([]table.Row, 0, len(m.plan.Milestones))
	for _, ms := range m.plan.Milestones {
		rows = append(rows, table.Row{
			strconv.Itoa(ms.Week),
			strconv.Itoa(ms.Day),
			ms.Date.Format(m.plan.DateLayout),
			fmt.Sprintf("%.1f", ms.WeightKg),
			fmt.Sprintf("%.0f", ms.CaloriesBurned),
		})
	}
	height := max(3, m.height-chartHeight-12)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(m.activeTab == tabPlan),
	)
	t.SetStyles(planTableStyles())
	m.milestones = t
}

func planTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorBorder).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(colorText).
		Bold(true)
	return styles
}

func (m *Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	var cmd tea.Cmd
	m.milestones, cmd = m.milestones.Update(msg)
	return m, cmd
}

func (m *Model) renderPlan() string {
	if len(m.plan.Milestones) == 0 {
		return "No projection: the target is reached or nothing is burned per day."
	}
	summary := fmt.Sprintf("Daily burn %.0f kcal · %d days · %s",
		m.plan.DailyBurn, m.plan.ExpectedDays, m.session.Outputs().TargetDateLabel)
	if m.plan.Truncated {
		summary += fmt.Sprintf(" · first %d weeks shown", projection.MaxWeeks)
	}
	parts := []string{
		statusStyle.Render(summary),
		cardTitleStyle.Render("Kilograms above target by week"),
		m.chart.View(),
		m.milestones.View(),
	}
	return strings.Join(parts, "\n")
}
