package projection

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/stepgoal/internal/input"
	"github.com/verte-zerg/stepgoal/internal/model"
	"github.com/verte-zerg/stepgoal/internal/session"
)

// RenderSummary writes the calculator outputs as a two-column report.
func RenderSummary(w io.Writer, out session.Outputs, s model.State) error {
	rows := [][]string{
		{"Required calories", fmt.Sprintf("%d kcal/day", out.RequiredCalories)},
		{"Calories to burn", fmt.Sprintf("%.0f kcal", out.TotalCaloriesToLose)},
		{"Expected days", strconv.Itoa(out.ExpectedDays)},
		{"Target date", out.TargetDateLabel},
		{"Deficit", input.Format(s.Deficit) + " kcal/day"},
		{"Steps per day", input.Format(s.StepsPerDay)},
		{"Mode", s.Mode.String()},
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderPlan writes the weekly milestones as an aligned table.
func RenderPlan(w io.Writer, p Plan) error {
	if len(p.Milestones) == 0 {
		_, err := fmt.Fprintln(w, "No projection: the target is reached or nothing is burned per day.")
		return err
	}

	if _, err := fmt.Fprintf(w, "Daily burn: %.0f kcal\n\n", p.DailyBurn); err != nil {
		return err
	}
	headers := []string{"Week", "Day", "Date", "Weight (kg)", "Burned (kcal)"}
	rows := make([][]string, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		rows = append(rows, []string{
			strconv.Itoa(m.Week),
			strconv.Itoa(m.Day),
			m.Date.Format(p.DateLayout),
			fmt.Sprintf("%.1f", m.WeightKg),
			fmt.Sprintf("%.0f", m.CaloriesBurned),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 1: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if p.Truncated {
		if _, err := fmt.Fprintf(w, "\nShowing the first %d weeks of %d days.\n", MaxWeeks, p.ExpectedDays); err != nil {
			return err
		}
	}
	return nil
}
