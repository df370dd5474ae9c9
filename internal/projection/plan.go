// Package projection derives the weight-loss timeline and renders it.
package projection

import (
	"math"
	"time"

	"github.com/verte-zerg/stepgoal/internal/model"
	"github.com/verte-zerg/stepgoal/internal/reconcile"
	"github.com/verte-zerg/stepgoal/internal/session"
)

const (
	daysPerWeek = 7
	// MaxWeeks bounds the milestone table for tiny daily burns.
	MaxWeeks = 520
)

// Milestone is the projected state at the end of a week.
type Milestone struct {
	Week           int
	Day            int
	Date           time.Time
	WeightKg       float64
	CaloriesBurned float64
}

// Plan is the projected timeline for a state.
type Plan struct {
	Start          time.Time
	DateLayout     string
	DailyBurn      float64
	ExpectedDays   int
	StartWeightKg  float64
	TargetWeightKg float64
	Milestones     []Milestone
	// Truncated is set when the timeline is longer than MaxWeeks.
	Truncated bool
}

// Build projects the timeline from start. The weight falls linearly by the
// daily burn and never passes the target.
func Build(s model.State, start time.Time) Plan {
	p := Plan{
		Start:          start,
		DateLayout:     session.DefaultDateLayout,
		DailyBurn:      reconcile.DailyBurn(s),
		ExpectedDays:   s.ExpectedDays,
		StartWeightKg:  s.Profile.CurrentWeightKg,
		TargetWeightKg: s.TargetWeightKg,
	}
	if p.ExpectedDays <= 0 || p.DailyBurn <= 0 {
		return p
	}

	lastDay := p.ExpectedDays
	if lastDay > MaxWeeks*daysPerWeek {
		lastDay = MaxWeeks * daysPerWeek
		p.Truncated = true
	}
	for day := daysPerWeek; day <= lastDay; day += daysPerWeek {
		p.Milestones = append(p.Milestones, p.milestone(day))
	}
	if lastDay%daysPerWeek != 0 {
		p.Milestones = append(p.Milestones, p.milestone(lastDay))
	}
	return p
}

func (p Plan) milestone(day int) Milestone {
	return Milestone{
		Week:           (day + daysPerWeek - 1) / daysPerWeek,
		Day:            day,
		Date:           p.Start.AddDate(0, 0, day),
		WeightKg:       p.WeightAt(float64(day)),
		CaloriesBurned: p.burnedBy(float64(day)),
	}
}

// WeightAt returns the projected weight after day days.
func (p Plan) WeightAt(day float64) float64 {
	w := p.StartWeightKg - p.DailyBurn*day/model.CaloriesPerKg
	return math.Max(w, p.TargetWeightKg)
}

func (p Plan) burnedBy(day float64) float64 {
	total := (p.StartWeightKg - p.TargetWeightKg) * model.CaloriesPerKg
	return math.Min(p.DailyBurn*day, total)
}

// TargetDate is the day the target weight is expected to be reached.
func (p Plan) TargetDate() (time.Time, bool) {
	if p.ExpectedDays <= 0 || p.ExpectedDays > session.MaxDateDays {
		return time.Time{}, false
	}
	return p.Start.AddDate(0, 0, p.ExpectedDays), true
}
