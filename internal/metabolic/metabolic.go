// Package metabolic estimates maintenance calories.
package metabolic

import "github.com/verte-zerg/stepgoal/internal/model"

// multipliers maps activity levels to their maintenance factor.
var multipliers = map[model.ActivityLevel]float64{
	model.Sedentary: 1.2,
	model.Moderate:  1.55,
	model.Heavy:     1.9,
}

// BMR computes the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(p model.Profile) float64 {
	bmr := 10*p.CurrentWeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == model.Female {
		return bmr - 161
	}
	return bmr + 5
}

// Multiplier returns the activity factor. Unknown levels count as sedentary.
func Multiplier(level model.ActivityLevel) float64 {
	if m, ok := multipliers[level]; ok {
		return m
	}
	return multipliers[model.Sedentary]
}

// EstimateMaintenanceCalories returns the rounded daily intake that keeps
// weight stable.
func EstimateMaintenanceCalories(p model.Profile, level model.ActivityLevel) int {
	return model.Round(BMR(p) * Multiplier(level))
}
