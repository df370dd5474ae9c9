// Package reconcile keeps deficit, steps per day and expected days consistent.
//
// The session is in one of two modes. Editing the deficit makes it
// deficit-driven: expected days are derived from the deficit plus the steps
// held fixed. Editing steps makes it steps-driven: expected days are derived
// from steps alone and the deficit is overwritten with the implied value.
// Weight edits replay whichever mode is active. Each edit runs at most one
// recompute pass and never re-enters itself.
package reconcile

import (
	"math"

	"github.com/verte-zerg/stepgoal/internal/model"
)

// New builds the session start state and runs the deficit-driven pass once.
func New(p model.Profile, activity model.ActivityLevel, targetWeightKg, deficit, steps float64) model.State {
	s := model.State{
		Profile:        p,
		Activity:       activity,
		TargetWeightKg: targetWeightKg,
		Deficit:        deficit,
		StepsPerDay:    steps,
		Mode:           model.DeficitDriven,
	}
	return deficitPass(s)
}

// Reconcile applies one edit and returns the new state and the pass it ran.
func Reconcile(s model.State, e model.Edit) (model.State, model.Pass) {
	switch e.Field {
	case model.FieldDeficit:
		s.Deficit = e.Number
		s.Mode = model.DeficitDriven
		return deficitPass(s), model.PassDeficit
	case model.FieldSteps:
		s.StepsPerDay = e.Number
		s.Mode = model.StepsDriven
		return stepsPass(s), model.PassSteps
	case model.FieldCurrentWeight:
		s.Profile.CurrentWeightKg = e.Number
		return replay(s)
	case model.FieldTargetWeight:
		s.TargetWeightKg = e.Number
		return replay(s)
	case model.FieldAge:
		s.Profile.Age = model.Trunc(e.Number)
	case model.FieldHeight:
		s.Profile.HeightCm = e.Number
	case model.FieldGender:
		s.Profile.Gender = e.Gender
	case model.FieldActivity:
		s.Activity = e.Activity
	}
	return s, model.PassNone
}

func replay(s model.State) (model.State, model.Pass) {
	if s.Mode == model.StepsDriven {
		return stepsPass(s), model.PassSteps
	}
	return deficitPass(s), model.PassDeficit
}

// TotalCaloriesToLose is the calorie gap between current and target weight.
// It is negative when the target exceeds the current weight.
func TotalCaloriesToLose(s model.State) float64 {
	return (s.Profile.CurrentWeightKg - s.TargetWeightKg) * model.CaloriesPerKg
}

// CaloriesFromSteps converts a daily step count into kcal/day.
func CaloriesFromSteps(steps float64) float64 {
	return steps * model.CaloriesPerStep
}

// DailyBurn is the kcal/day the plan burns: the non-negative deficit plus steps.
func DailyBurn(s model.State) float64 {
	return math.Max(s.Deficit, 0) + CaloriesFromSteps(s.StepsPerDay)
}

// deficitPass derives expected days from the deficit and the held steps.
// Steps are never written.
func deficitPass(s model.State) model.State {
	total := TotalCaloriesToLose(s)
	perDay := DailyBurn(s)
	days := 0.0
	if perDay > 0 {
		days = total / perDay
	}
	s.ExpectedDays = model.Round(days)
	return s
}

// stepsPass derives expected days from steps alone and overwrites the
// deficit with the implied value. The overwrite is skipped when the
// estimate is zero or not finite, since the implied deficit is undefined.
func stepsPass(s model.State) model.State {
	total := TotalCaloriesToLose(s)
	fromSteps := CaloriesFromSteps(s.StepsPerDay)
	estimated := 0.0
	if fromSteps > 0 {
		estimated = total / fromSteps
	}
	s.ExpectedDays = model.Round(estimated)

	if estimated == 0 || math.IsNaN(estimated) || math.IsInf(estimated, 0) {
		return s
	}
	implied := math.Max(0, total/estimated-fromSteps)
	if math.IsNaN(implied) || math.IsInf(implied, 0) {
		return s
	}
	s.Deficit = float64(model.Round(implied))
	return s
}
