package projection

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

const isoDate = "2006-01-02"

// WriteCSV exports the milestones with a header row.
func WriteCSV(w io.Writer, p Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"week", "day", "date", "weight_kg", "calories_burned"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range p.Milestones {
		row := []string{
			strconv.Itoa(m.Week),
			strconv.Itoa(m.Day),
			m.Date.Format(isoDate),
			strconv.FormatFloat(m.WeightKg, 'f', 2, 64),
			strconv.FormatFloat(m.CaloriesBurned, 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonMilestone struct {
	Week           int     `json:"week"`
	Day            int     `json:"day"`
	Date           string  `json:"date"`
	WeightKg       float64 `json:"weight_kg"`
	CaloriesBurned float64 `json:"calories_burned"`
}

type jsonPlan struct {
	Start          string          `json:"start"`
	TargetDate     string          `json:"target_date,omitempty"`
	DailyBurn      float64         `json:"daily_burn"`
	ExpectedDays   int             `json:"expected_days"`
	StartWeightKg  float64         `json:"start_weight_kg"`
	TargetWeightKg float64         `json:"target_weight_kg"`
	Truncated      bool            `json:"truncated,omitempty"`
	Milestones     []jsonMilestone `json:"milestones"`
}

// WriteJSON exports the plan as indented JSON.
func WriteJSON(w io.Writer, p Plan) error {
	out := jsonPlan{
		Start:          p.Start.Format(isoDate),
		DailyBurn:      p.DailyBurn,
		ExpectedDays:   p.ExpectedDays,
		StartWeightKg:  p.StartWeightKg,
		TargetWeightKg: p.TargetWeightKg,
		Truncated:      p.Truncated,
		Milestones:     make([]jsonMilestone, 0, len(p.Milestones)),
	}
	if d, ok := p.TargetDate(); ok {
		out.TargetDate = d.Format(isoDate)
	}
	for _, m := range p.Milestones {
		out.Milestones = append(out.Milestones, jsonMilestone{
			Week:           m.Week,
			Day:            m.Day,
			Date:           m.Date.Format(isoDate),
			WeightKg:       m.WeightKg,
			CaloriesBurned: m.CaloriesBurned,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
